package roles

// Role statuses. Lowercase, unlike user statuses; kept as the API shipped them.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Role represents an access role assignable to users
type Role struct {
	ID         int64  `json:"id"`
	RoleName   string `json:"roleName"`
	CreatedBy  string `json:"createdBy"`
	Status     string `json:"status"`
	Permission string `json:"permission"`
	CreatedOn  string `json:"createdOn"`
	UpdatedOn  string `json:"updatedOn"`
}

// ValidStatus reports whether s is a recognised role status
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
