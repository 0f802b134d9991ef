package contacts

// Contact statuses. "Other" requires a free-text reason.
const (
	StatusConnected    = "Connected"
	StatusNotConnected = "notConnected"
	StatusOther        = "Other"
)

// Contact represents an inbound enquiry from the public site
type Contact struct {
	ID                     int64  `json:"id"`
	Name                   string `json:"name"`
	Email                  string `json:"email,omitempty"`
	PhoneNumber            string `json:"phoneNumber"`
	Message                string `json:"message,omitempty"`
	PreferredAvailableTime string `json:"preferredAvailableTime,omitempty"`
	Status                 string `json:"status"`
	StatusReason           string `json:"statusReason,omitempty"`
	CreatedOn              string `json:"createdOn"`
	UpdatedOn              string `json:"updatedOn"`
}

// ValidStatus reports whether s is a recognised contact status
func ValidStatus(s string) bool {
	return s == StatusConnected || s == StatusNotConnected || s == StatusOther
}

// ListResult is the paginated payload for the contact list endpoint
type ListResult struct {
	Contacts      []Contact `json:"contacts"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	TotalContacts int       `json:"totalContacts"`
}
