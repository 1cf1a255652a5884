package deduction

import (
	"testing"
	"time"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func matched(v bool) *bool {
	return &v
}

func baseRecord() *entity.InvoiceRecord {
	return &entity.InvoiceRecord{
		Buyer: "สมชาย ใจดี",
		Verification: entity.SellerVerification{
			Matched:           matched(true),
			SellerFromReceipt: "บริษัท ทดสอบ จำกัด",
			SellerFromTaxID:   "บริษัท ทดสอบ จำกัด",
		},
		DocumentDate: entity.DocumentDate{Day: "15", Month: "6", Year: "2569"},
	}
}

func TestEvaluateDocumentGates(t *testing.T) {
	clock := fixedClock(2026, time.June, 20) // B.E. 2569

	tests := []struct {
		name       string
		mutate     func(*entity.InvoiceRecord)
		userName   string
		wantStatus enum.DeductionStatus
		wantReason string
	}{
		{
			name:       "all gates pass",
			mutate:     func(r *entity.InvoiceRecord) {},
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentPassed,
			wantReason: "",
		},
		{
			name:       "buyer name mismatch",
			mutate:     func(r *entity.InvoiceRecord) { r.Buyer = "สมหญิง ใจดี" },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ชื่อผู้ซื้อไม่ตรงกับชื่อผู้ใช้",
		},
		{
			name:       "buyer name with surrounding whitespace still matches",
			mutate:     func(r *entity.InvoiceRecord) { r.Buyer = "  สมชาย ใจดี " },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentPassed,
		},
		{
			name:       "seller verification false",
			mutate:     func(r *entity.InvoiceRecord) { r.Verification.Matched = matched(false) },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ไม่สามารถยืนยันชื่อบริษัทกับฐานข้อมูล",
		},
		{
			name:       "seller verification undetermined",
			mutate:     func(r *entity.InvoiceRecord) { r.Verification.Matched = nil },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ไม่สามารถยืนยันชื่อบริษัทกับฐานข้อมูล",
		},
		{
			name:       "prior tax year",
			mutate:     func(r *entity.InvoiceRecord) { r.DocumentDate.Year = "2568" },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ปีภาษีไม่ตรง (ต้องเป็น 2569)",
		},
		{
			name:       "missing year",
			mutate:     func(r *entity.InvoiceRecord) { r.DocumentDate.Year = "" },
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ปีภาษีไม่ตรง (ต้องเป็น 2569)",
		},
		{
			name: "buyer gate wins over later gates",
			mutate: func(r *entity.InvoiceRecord) {
				r.Buyer = "คนอื่น"
				r.Verification.Matched = nil
				r.DocumentDate.Year = "2500"
			},
			userName:   "สมชาย ใจดี",
			wantStatus: enum.DocumentRejected,
			wantReason: "ไม่สามารถลดหย่อนได้ เพราะ: ชื่อผู้ซื้อไม่ตรงกับชื่อผู้ใช้",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(rec)

			got := NewEvaluator(WithClock(clock)).Evaluate(rec, tt.userName)

			if got.DocumentDeductionStatus != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.DocumentDeductionStatus, tt.wantStatus)
			}
			if tt.wantReason != "" && got.DocumentDeductionReason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.DocumentDeductionReason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateRejectionLeavesItemsUntouched(t *testing.T) {
	clock := fixedClock(2026, time.March, 1)

	rec := baseRecord()
	rec.Buyer = "ชื่อที่ไม่ตรง"
	rec.Items = []entity.LineItem{
		{Name: "เบี้ยประกันชีวิต", SubCategory: enum.SubCategoryLifeInsurance},
		{Name: "สินค้าทั่วไป"},
	}

	got := NewEvaluator(WithClock(clock)).Evaluate(rec, "สมชาย ใจดี")

	if len(got.Items) != 2 {
		t.Fatalf("items length = %d, want 2", len(got.Items))
	}
	for i, item := range got.Items {
		if item.DeductionStatus != "" {
			t.Errorf("item %d status = %q, want empty on document rejection", i, item.DeductionStatus)
		}
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	clock := fixedClock(2026, time.June, 20)

	rec := baseRecord()
	rec.WarrantyPeriod = "5"
	rec.Items = []entity.LineItem{
		{Name: "เบี้ยประกันชีวิต", SubCategory: enum.SubCategoryLifeInsurance},
	}

	_ = NewEvaluator(WithClock(clock)).Evaluate(rec, "สมชาย ใจดี")

	if rec.DocumentDeductionStatus != "" {
		t.Errorf("input document status mutated to %q", rec.DocumentDeductionStatus)
	}
	if rec.Items[0].DeductionStatus != "" {
		t.Errorf("input item status mutated to %q", rec.Items[0].DeductionStatus)
	}
}

func TestEvaluateEarlyExit(t *testing.T) {
	clock := fixedClock(2026, time.June, 20) // B.E. 2569

	newRecord := func() *entity.InvoiceRecord {
		rec := baseRecord()
		rec.WarrantyPeriod = "5"
		rec.Items = []entity.LineItem{
			{Name: "สมุด"},
			{Name: "เบี้ยประกันชีวิต", SubCategory: enum.SubCategoryLifeInsurance},
			{Name: "ปากกา"},
		}
		return rec
	}

	t.Run("default halts after first ineligible item", func(t *testing.T) {
		got := NewEvaluator(WithClock(clock)).Evaluate(newRecord(), "สมชาย ใจดี")

		want := []enum.DeductionStatus{enum.DeductionEligible, enum.DeductionIneligible, ""}
		for i, status := range want {
			if got.Items[i].DeductionStatus != status {
				t.Errorf("item %d status = %q, want %q", i, got.Items[i].DeductionStatus, status)
			}
		}
		if got.DocumentDeductionStatus != enum.DocumentPassed {
			t.Errorf("document status = %q, want %q", got.DocumentDeductionStatus, enum.DocumentPassed)
		}
	})

	t.Run("evaluate-all annotates every item", func(t *testing.T) {
		got := NewEvaluator(WithClock(clock), EvaluateAllItems(true)).Evaluate(newRecord(), "สมชาย ใจดี")

		want := []enum.DeductionStatus{enum.DeductionEligible, enum.DeductionIneligible, enum.DeductionEligible}
		for i, status := range want {
			if got.Items[i].DeductionStatus != status {
				t.Errorf("item %d status = %q, want %q", i, got.Items[i].DeductionStatus, status)
			}
		}
	})
}

func TestEvaluateLongWarrantyInsurance(t *testing.T) {
	clock := fixedClock(2026, time.June, 20)

	rec := baseRecord()
	rec.WarrantyPeriod = "12"
	rec.Items = []entity.LineItem{
		{Name: "เบี้ยประกันชีวิต", SubCategory: enum.SubCategoryLifeInsurance},
		{Name: "ค่าธรรมเนียม"},
	}

	got := NewEvaluator(WithClock(clock)).Evaluate(rec, "สมชาย ใจดี")

	for i, item := range got.Items {
		if item.DeductionStatus != enum.DeductionEligible {
			t.Errorf("item %d status = %q, want %q", i, item.DeductionStatus, enum.DeductionEligible)
		}
	}
	if got.DocumentDeductionStatus != enum.DocumentPassed {
		t.Errorf("document status = %q, want %q", got.DocumentDeductionStatus, enum.DocumentPassed)
	}
}

func TestBuddhistYear(t *testing.T) {
	got := BuddhistYear(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	if got != 2569 {
		t.Errorf("BuddhistYear(2026) = %d, want 2569", got)
	}
	if GregorianYear(2569) != 2026 {
		t.Errorf("GregorianYear(2569) = %d, want 2026", GregorianYear(2569))
	}
}
