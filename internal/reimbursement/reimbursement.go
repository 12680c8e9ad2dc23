package reimbursement

// Category is the expense category of a reimbursement
type Category string

const (
	CategoryFood      Category = "Food"
	CategoryLodging   Category = "Lodging"
	CategoryTransport Category = "Transport"
	CategoryServices  Category = "Services"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryFood,
	CategoryLodging,
	CategoryTransport,
	CategoryServices,
	CategoryOther,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Reimbursement represents a reimbursement request with its receipt
type Reimbursement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Amount      float64  `json:"amount"`
	Receipt     string   `json:"receipt,omitempty"`      // Data URL of the uploaded file
	ReceiptName string   `json:"receipt_name,omitempty"` // Original filename
	CreatedAt   string   `json:"created_at"`             // ISO 8601, UTC
}

// NewReimbursement holds the caller-supplied fields of a reimbursement
type NewReimbursement struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Amount      float64  `json:"amount"`
	Receipt     string   `json:"receipt,omitempty"`
	ReceiptName string   `json:"receipt_name,omitempty"`
}

// Page is one page of a filtered listing
type Page struct {
	Data  []Reimbursement `json:"data"`
	Total int             `json:"total"` // Matches across all pages
	Pages int             `json:"pages"`
}
