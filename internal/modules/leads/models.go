package leads

// Lead statuses. Inactive can only be assigned at creation time; the
// status endpoint accepts Active and Disabled only.
const (
	StatusActive   = "Active"
	StatusDisabled = "Disabled"
	StatusInactive = "Inactive"
)

// Lead represents a buyer enquiry against a listed property
type Lead struct {
	ID         int64  `json:"id"`
	LeadNo     string `json:"leadNo"`
	Name       string `json:"name"`
	PhoneNo    string `json:"phoneNo"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	PropertyNo string `json:"propertyNo"`
	Status     string `json:"status"`
	CreatedOn  string `json:"createdon"`
	UpdatedOn  string `json:"updatedon"`
}

// ValidStatus reports whether s may be stored on a lead
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusDisabled || s == StatusInactive
}

// ValidTransitionStatus reports whether s is accepted by the status endpoint
func ValidTransitionStatus(s string) bool {
	return s == StatusActive || s == StatusDisabled
}

// ListResult is the paginated payload for the lead list endpoint
type ListResult struct {
	Leads       []Lead `json:"leads"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	TotalLeads  int    `json:"totalLeads"`
}
