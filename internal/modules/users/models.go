package users

// User statuses
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// User represents a back-office user account. The bcrypt password hash
// never leaves the service.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	PrimaryPhone   string `json:"primaryPhone"`
	SecondaryPhone string `json:"secondaryPhone"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	CreatedBy      string `json:"createdBy"`
	ProfilePhoto   string `json:"profilePhoto,omitempty"`
	Reason         string `json:"reason,omitempty"`
	CreatedOn      string `json:"createdOn"`
	UpdatedOn      string `json:"updatedOn"`
}

// ValidStatus reports whether s is a recognised user status
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// ListResult is the paginated payload for the user list endpoint
type ListResult struct {
	Users       []User `json:"users"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	TotalUsers  int    `json:"totalUsers"`
}

// ListFilter holds the case-insensitive substring filters for listing
type ListFilter struct {
	Name  string
	Email string
}
