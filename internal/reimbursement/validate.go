package reimbursement

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zombor/reimburse-tracker/internal/receipt"
)

const (
	// MaxReceiptSize is the largest accepted receipt upload
	MaxReceiptSize = 5 << 20

	minNameLength = 3
)

// acceptedReceiptTypes are the media types a receipt may have
var acceptedReceiptTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// Form is a submitted reimbursement request before validation
type Form struct {
	Name     string
	Category string
	Amount   string
	Filename string
	File     []byte
}

// ValidationErrors maps a form field to its problem
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field+": "+v[field])
	}
	return "invalid reimbursement: " + strings.Join(msgs, "; ")
}

// Validate checks the form and, when it is valid, returns the request to
// pass to Service.Create with the file encoded as a data URL.
func (f Form) Validate() (*NewReimbursement, error) {
	errs := ValidationErrors{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) < minNameLength:
		errs["name"] = "Name must be at least 3 characters"
	}

	category := Category(strings.TrimSpace(f.Category))
	switch {
	case category == "":
		errs["category"] = "Category is required"
	case !category.Valid():
		errs["category"] = "Unknown category"
	}

	var amount float64
	if strings.TrimSpace(f.Amount) == "" {
		errs["amount"] = "Amount is required"
	} else {
		parsed, err := ParseCurrency(f.Amount)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
			errs["amount"] = "Enter a valid amount greater than zero"
		} else {
			amount = parsed
		}
	}

	var mediaType string
	switch {
	case len(f.File) == 0:
		errs["file"] = "Receipt is required"
	case len(f.File) > MaxReceiptSize:
		errs["file"] = "File is too large. Maximum size is 5MB"
	default:
		mediaType = detectReceiptType(f.File)
		if mediaType == "" {
			errs["file"] = "Invalid file type. Use JPG, PNG or PDF"
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &NewReimbursement{
		Name:        name,
		Category:    category,
		Amount:      amount,
		Receipt:     receipt.Encode(mediaType, f.File),
		ReceiptName: f.Filename,
	}, nil
}

// detectReceiptType sniffs data and returns its media type if accepted
func detectReceiptType(data []byte) string {
	detected := mimetype.Detect(data)
	for _, accepted := range acceptedReceiptTypes {
		if detected.Is(accepted) {
			return accepted
		}
	}
	return ""
}
