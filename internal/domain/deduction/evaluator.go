package deduction

import (
	"fmt"
	"strings"
	"time"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

// Gate-failure reasons, in gate order.
const (
	ReasonBuyerMismatch    = "ชื่อผู้ซื้อไม่ตรงกับชื่อผู้ใช้"
	ReasonSellerUnverified = "ไม่สามารถยืนยันชื่อบริษัทกับฐานข้อมูล"
	reasonWrongYearFormat  = "ปีภาษีไม่ตรง (ต้องเป็น %d)"
	reasonDocumentFormat   = "ไม่สามารถลดหย่อนได้ เพราะ: %s"
)

// Evaluator applies the document gates and per-item eligibility rules to an
// invoice record. It is stateless apart from its options and safe for
// concurrent use.
type Evaluator struct {
	clock            func() time.Time
	evaluateAllItems bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the time source; the tax year is derived from it.
func WithClock(clock func() time.Time) Option {
	return func(e *Evaluator) {
		e.clock = clock
	}
}

// EvaluateAllItems makes the evaluator annotate every line item instead of
// stopping at the first ineligible one.
func EvaluateAllItems(enabled bool) Option {
	return func(e *Evaluator) {
		e.evaluateAllItems = enabled
	}
}

// NewEvaluator creates an evaluator. By default it uses the wall clock and
// halts item evaluation at the first ineligible item.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the two-tier check for one page and returns a new annotated
// record; the input record is never modified.
//
// Tier 1 rejects the whole document on the first failing gate (buyer name,
// seller verification, tax year) and leaves the items untouched. Tier 2
// annotates items through the rule tables; the document itself then passes
// the preliminary check regardless of item verdicts.
func (e *Evaluator) Evaluate(record *entity.InvoiceRecord, userName string) *entity.InvoiceRecord {
	out := record.Clone()
	if out == nil {
		out = &entity.InvoiceRecord{}
	}

	currentBE := BuddhistYear(e.clock())

	if reason := e.gateReason(out, userName, currentBE); reason != "" {
		out.DocumentDeductionStatus = enum.DocumentRejected
		out.DocumentDeductionReason = fmt.Sprintf(reasonDocumentFormat, reason)
		return out
	}

	e.annotateItems(out, currentBE)
	out.DocumentDeductionStatus = enum.DocumentPassed
	out.DocumentDeductionReason = ""
	return out
}

// gateReason returns the first failing document gate, or "" when all pass.
// Gate order is fixed.
func (e *Evaluator) gateReason(record *entity.InvoiceRecord, userName string, currentBE int) string {
	if strings.TrimSpace(record.Buyer) != userName {
		return ReasonBuyerMismatch
	}

	if record.Verification.Matched == nil || !*record.Verification.Matched {
		return ReasonSellerUnverified
	}

	if year, ok := record.DocumentDate.Year.Int(); !ok || year != currentBE {
		return fmt.Sprintf(reasonWrongYearFormat, currentBE)
	}

	return ""
}

func (e *Evaluator) annotateItems(record *entity.InvoiceRecord, currentBE int) {
	facts := itemFacts{
		warrantyYears: record.WarrantyPeriod.IntOrZero(),
		day:           intPtr(record.DocumentDate.Day),
		month:         intPtr(record.DocumentDate.Month),
		year:          intPtr(record.DocumentDate.Year),
		currentBE:     currentBE,
	}

	for i := range record.Items {
		item := &record.Items[i]
		if itemIneligible(item.SubCategory, item.Category, facts) {
			item.DeductionStatus = enum.DeductionIneligible
			if !e.evaluateAllItems {
				return
			}
			continue
		}
		item.DeductionStatus = enum.DeductionEligible
	}
}

func intPtr(f entity.FlexString) *int {
	n, ok := f.Int()
	if !ok {
		return nil
	}
	return &n
}
