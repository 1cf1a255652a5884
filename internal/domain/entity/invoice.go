package entity

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

// FlexString is a scalar that accepts a JSON string, number or null. The
// extraction model is inconsistent about quoting numeric fields ("16" vs 16),
// so every numeric-ish field on the invoice record uses this type.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int parses the value as a base-10 integer. The second return is false for
// empty values, Thai month names, or anything else strconv rejects.
func (f FlexString) Int() (int, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntOrZero parses the value as an integer, defaulting to 0.
func (f FlexString) IntOrZero() int {
	n, ok := f.Int()
	if !ok {
		return 0
	}
	return n
}

// DocumentDate is the document date as extracted, in the Buddhist calendar.
// Components stay raw: the rules engine compares them as naive integers while
// the storage layer resolves Thai month names and converts to Gregorian.
type DocumentDate struct {
	Day   FlexString `json:"day"`
	Month FlexString `json:"month"`
	Year  FlexString `json:"year"`
}

// SellerVerification records the outcome of matching the seller on the
// receipt against the company registered under the extracted tax ID.
// Matched is nil when verification could not be performed at all.
type SellerVerification struct {
	Matched           *bool  `json:"matched"`
	SellerFromReceipt string `json:"seller_from_receipt"`
	SellerFromTaxID   string `json:"seller_from_tax_id"`
	Reason            string `json:"reason,omitempty"`
}

// LineItem is a single purchased item on the invoice. Order is significant
// and must survive every processing stage.
type LineItem struct {
	Name            string               `json:"name"`
	Quantity        FlexString           `json:"quantity,omitempty"`
	UnitPrice       FlexString           `json:"unit_price,omitempty"`
	TotalPrice      FlexString           `json:"total_price,omitempty"`
	Category        enum.Category        `json:"category,omitempty"`
	SubCategory     enum.SubCategory     `json:"sub_category,omitempty"`
	DeductionStatus enum.DeductionStatus `json:"deduction_status,omitempty"`
}

// InvoiceRecord is the structured result for one page of a scanned document,
// as produced by OCR + extraction and enriched by the later pipeline stages.
type InvoiceRecord struct {
	Title          string             `json:"title"`
	InvoiceType    enum.InvoiceType   `json:"invoice_type"`
	Seller         string             `json:"seller"`
	SellerAddress  string             `json:"seller_address,omitempty"`
	Buyer          string             `json:"buyer"`
	BuyerAddress   string             `json:"buyer_address,omitempty"`
	TaxID          string             `json:"tax_id"`
	InvoiceNo      string             `json:"invoice_no"`
	DocumentDate   DocumentDate       `json:"document_date"`
	Items          []LineItem         `json:"items"`
	Subtotal       FlexString         `json:"subtotal,omitempty"`
	VAT            FlexString         `json:"vat,omitempty"`
	Total          FlexString         `json:"total,omitempty"`
	AmountText     string             `json:"amount_text,omitempty"`
	WarrantyPeriod FlexString         `json:"warranty_period,omitempty"`
	Category       enum.Category      `json:"category,omitempty"`
	SubCategory    enum.SubCategory   `json:"sub_category,omitempty"`
	Verification   SellerVerification `json:"seller_verification"`

	DocumentDeductionStatus enum.DeductionStatus `json:"document_deduction_status,omitempty"`
	DocumentDeductionReason string               `json:"document_deduction_reason,omitempty"`
}

// UnmarshalJSON tolerates a malformed items field (object, string, number):
// anything that is not an array degrades to an empty item list instead of
// failing the whole record.
func (r *InvoiceRecord) UnmarshalJSON(data []byte) error {
	type alias InvoiceRecord
	aux := struct {
		Items json.RawMessage `json:"items"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Items = nil
	if len(aux.Items) > 0 {
		var items []LineItem
		if err := json.Unmarshal(aux.Items, &items); err == nil {
			r.Items = items
		}
	}
	return nil
}

// Clone returns a deep copy; the items slice is duplicated so annotating the
// copy never touches the original.
func (r *InvoiceRecord) Clone() *InvoiceRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Items != nil {
		out.Items = make([]LineItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	if r.Verification.Matched != nil {
		matched := *r.Verification.Matched
		out.Verification.Matched = &matched
	}
	return &out
}
