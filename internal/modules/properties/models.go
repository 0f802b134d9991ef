package properties

// Property statuses
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

// Property represents a listed property. Media holds the uploaded image
// URLs, stored as a JSON array column.
type Property struct {
	ID              int64    `json:"id"`
	PropertyNo      string   `json:"propertyNo"`
	Location        string   `json:"location"`
	Address         string   `json:"address"`
	ProjectName     string   `json:"projectName"`
	SubLocation     string   `json:"subLocation"`
	ReraNo          string   `json:"reraNo"`
	ReraApproved    string   `json:"reraApproved"`
	Property        string   `json:"property"`
	PropertyType    string   `json:"propertyType"`
	PropertyFor     string   `json:"propertyFor"`
	PropertySubtype string   `json:"propertySubtype"`
	Facility        string   `json:"facility"`
	Connectivity    string   `json:"connectivity"`
	OfferedCost     string   `json:"offeredCost"`
	CurrentCost     string   `json:"currentCost"`
	Documents       string   `json:"documents"`
	USP             string   `json:"usp"`
	Media           []string `json:"media"`
	LoanApplicable  string   `json:"loanApplicable"`
	RegisteredNo    string   `json:"registeredNo"`
	PaymentOptions  string   `json:"paymentOptions"`
	Size            string   `json:"size"`
	ReturnRY        string   `json:"returnRY"`
	Status          string   `json:"status"`
	CreatedBy       string   `json:"createdBy"`
	CreatedOn       string   `json:"createdOn"`
	UpdatedOn       string   `json:"updatedOn"`
}

// ValidStatus reports whether s is a recognised property status
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusPending
}

// ListFilter holds the case-insensitive substring filters for listing
type ListFilter struct {
	PropertyNo      string
	Location        string
	SubLocation     string
	PropertyFor     string
	PropertyType    string
	PropertySubtype string
}

// Search reports whether a free-text search filter is present. Searches
// bypass pagination entirely: every match comes back on one page.
func (f ListFilter) Search() bool {
	return f.PropertyNo != "" || f.Location != "" || f.SubLocation != ""
}

// ListResult is the payload for the property list endpoint
type ListResult struct {
	Properties      []Property `json:"properties"`
	TotalPages      int        `json:"totalPages"`
	CurrentPage     int        `json:"currentPage"`
	TotalProperties int        `json:"totalProperties"`
}
