package reimbursement

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders amount with two decimals and a decimal comma,
// e.g. 34.78 becomes "34,78". Halves round away from zero.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return strings.Replace(decimal.NewFromFloat(amount).StringFixed(2), ".", ",", 1)
}

// ParseCurrency reads an amount written with a decimal comma or point
func ParseCurrency(value string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(value), ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	amount, _ := d.Float64()
	return amount, nil
}

// FormatDate renders an ISO 8601 timestamp as dd/mm/yyyy in UTC
func FormatDate(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", iso, err)
	}
	return t.UTC().Format("02/01/2006"), nil
}
