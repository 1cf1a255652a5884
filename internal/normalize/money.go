package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
)

// ParseMoney parses an extracted amount such as "20,908.46" into an exact
// decimal. Empty or unparseable input yields nil.
func ParseMoney(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// DocumentTotal returns the document total, falling back to the sum of the
// parseable line-item totals when the total field itself does not parse.
// Nil means no amount could be recovered at all.
func DocumentTotal(record *entity.InvoiceRecord) *decimal.Decimal {
	if record == nil {
		return nil
	}
	if total := ParseMoney(record.Total.String()); total != nil {
		return total
	}

	sum := decimal.Zero
	found := false
	for _, item := range record.Items {
		if v := ParseMoney(item.TotalPrice.String()); v != nil {
			sum = sum.Add(*v)
			found = true
		}
	}
	if !found {
		return nil
	}
	return &sum
}
