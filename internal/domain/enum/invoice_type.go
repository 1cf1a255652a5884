package enum

import "strings"

// InvoiceType classifies the kind of tax invoice found on a page.
type InvoiceType string

const (
	InvoiceTypeFull    InvoiceType = "Full Invoice"
	InvoiceTypeSimple  InvoiceType = "Simple Invoice"
	InvoiceTypeUnknown InvoiceType = "Unknown"
)

func (t InvoiceType) String() string {
	return string(t)
}

// DetectInvoiceType inspects raw OCR text for the Thai invoice headings.
// The full-form heading is checked first because the abbreviated heading is
// a substring of it.
func DetectInvoiceType(text string) InvoiceType {
	switch {
	case strings.Contains(text, "ใบกำกับภาษีแบบเต็ม"):
		return InvoiceTypeFull
	case strings.Contains(text, "ใบกำกับภาษีแบบย่อ"), strings.Contains(text, "ใบกำกับภาษี"):
		return InvoiceTypeSimple
	default:
		return InvoiceTypeUnknown
	}
}
