package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/keingkrai/process-tax-ocr/internal/domain/deduction"
	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/storage"
	"github.com/keingkrai/process-tax-ocr/pkg/pagination"
)

type fakeStore struct {
	pages int
}

func (f *fakeStore) Save(r io.Reader, originalName string) (*storage.StoredFile, error) {
	io.Copy(io.Discard, r)
	return &storage.StoredFile{
		Path:         "/tmp/uploads/" + originalName,
		OriginalName: originalName,
		MimeType:     storage.MimePDF,
		SHA256:       "deadbeef",
		Size:         1024,
	}, nil
}

func (f *fakeStore) PageCount(file *storage.StoredFile) (int, error) {
	return f.pages, nil
}

func (f *fakeStore) PageImages(file *storage.StoredFile, pageCount int) ([]storage.PageImage, error) {
	images := make([]storage.PageImage, pageCount)
	for i := range images {
		images[i] = storage.PageImage{Path: "/tmp/work/page.png", MimeType: storage.MimePNG}
	}
	return images, nil
}

type fakeRecognizer struct {
	err   error
	calls int
}

func (f *fakeRecognizer) RecognizePage(ctx context.Context, imagePath, mimeType string) (string, error) {
	f.calls++
	if f.err != nil && f.calls == 1 {
		return "", f.err
	}
	return "ใบกำกับภาษี ใบเสร็จรับเงิน", nil
}

type fakeExtractor struct {
	record entity.InvoiceRecord
}

func (f *fakeExtractor) Extract(ctx context.Context, markdown string, invoiceType enum.InvoiceType) (*entity.InvoiceRecord, error) {
	record := f.record
	record.Items = append([]entity.LineItem(nil), f.record.Items...)
	record.InvoiceType = invoiceType
	return &record, nil
}

type fakeClassifier struct {
	category    enum.Category
	subCategory enum.SubCategory
	err         error
}

func (f *fakeClassifier) Classify(ctx context.Context, title string) (enum.Category, enum.SubCategory, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.category, f.subCategory, nil
}

type fakeVerifier struct {
	matched bool
}

func (f *fakeVerifier) Verify(ctx context.Context, sellerName, taxID string) (*entity.SellerVerification, error) {
	matched := f.matched
	return &entity.SellerVerification{
		Matched:           &matched,
		SellerFromReceipt: sellerName,
		SellerFromTaxID:   sellerName,
	}, nil
}

type fakeAudit struct {
	writes int
	err    error
}

func (f *fakeAudit) WritePage(fileName string, page int, result any) error {
	f.writes++
	return f.err
}

type fakeDocumentRepo struct {
	upserted *entity.Document
	history  []entity.DocumentResultHistory
}

func (f *fakeDocumentRepo) Upsert(ctx context.Context, document *entity.Document) (*entity.Document, error) {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	f.upserted = document
	return document, nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	if f.upserted != nil && f.upserted.ID == id {
		return f.upserted, nil
	}
	return nil, nil
}

func (f *fakeDocumentRepo) GetByEmployeeAndSHA256(ctx context.Context, employeeID uuid.UUID, sha256 string) (*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepo) List(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Document, int64, error) {
	return nil, 0, nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeDocumentRepo) AppendHistory(ctx context.Context, history *entity.DocumentResultHistory) error {
	f.history = append(f.history, *history)
	return nil
}

func (f *fakeDocumentRepo) ListHistory(ctx context.Context, documentID uuid.UUID) ([]entity.DocumentResultHistory, error) {
	return f.history, nil
}

func fixedJune2026() time.Time {
	return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func extractedRecord() entity.InvoiceRecord {
	return entity.InvoiceRecord{
		Title:  "ใบเสร็จรับเงิน",
		Seller: "บริษัท ทดสอบ จำกัด",
		Buyer:  "สมชาย ใจดี",
		TaxID:  "0105536112233",
		DocumentDate: entity.DocumentDate{
			Day:   "15",
			Month: "06",
			Year:  "2569",
		},
		Items: []entity.LineItem{
			{Name: "เบี้ยประกันชีวิต", TotalPrice: "20908.46"},
		},
		Total:          "20908.46",
		WarrantyPeriod: "12",
	}
}

func newProcessService(repo *fakeDocumentRepo, store *fakeStore, recognizer *fakeRecognizer, classifier *fakeClassifier, verifier *fakeVerifier, audit *fakeAudit, record entity.InvoiceRecord) *ProcessService {
	return NewProcessService(
		repo,
		store,
		recognizer,
		&fakeExtractor{record: record},
		classifier,
		verifier,
		audit,
		deduction.NewEvaluator(deduction.WithClock(fixedJune2026)),
	)
}

func TestProcessDocumentHappyPath(t *testing.T) {
	repo := &fakeDocumentRepo{}
	audit := &fakeAudit{}
	svc := newProcessService(
		repo,
		&fakeStore{pages: 1},
		&fakeRecognizer{},
		&fakeClassifier{category: enum.CategorySavingsInvest, subCategory: enum.SubCategoryLifeInsurance},
		&fakeVerifier{matched: true},
		audit,
		extractedRecord(),
	)

	out, err := svc.ProcessDocument(context.Background(), uuid.New(), "สมชาย ใจดี", "receipt.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if len(out.Pages) != 1 {
		t.Fatalf("len(Pages) = %d, want 1", len(out.Pages))
	}
	record := out.Pages[0].Record
	if record == nil {
		t.Fatalf("page record is nil, error = %q", out.Pages[0].Error)
	}
	if record.DocumentDeductionStatus != enum.DocumentPassed {
		t.Errorf("document status = %q, want %q", record.DocumentDeductionStatus, enum.DocumentPassed)
	}
	if got := record.Items[0].DeductionStatus; got != enum.DeductionEligible {
		t.Errorf("item status = %q, want %q", got, enum.DeductionEligible)
	}
	if got := record.Items[0].SubCategory; got != enum.SubCategoryLifeInsurance {
		t.Errorf("item sub-category = %q, want %q", got, enum.SubCategoryLifeInsurance)
	}

	if repo.upserted == nil {
		t.Fatal("document was not persisted")
	}
	if repo.upserted.DeductionStatus != enum.DocumentPassed {
		t.Errorf("persisted status = %q, want %q", repo.upserted.DeductionStatus, enum.DocumentPassed)
	}
	if repo.upserted.VendorName == nil || *repo.upserted.VendorName != "บริษัท ทดสอบ จำกัด" {
		t.Errorf("persisted vendor = %v", repo.upserted.VendorName)
	}
	if repo.upserted.DocDate == nil {
		t.Error("persisted doc date is nil")
	} else if got := repo.upserted.DocDate.Year(); got != 2026 {
		t.Errorf("persisted doc year = %d, want 2026", got)
	}
	if repo.upserted.TotalAmount == nil || repo.upserted.TotalAmount.String() != "20908.46" {
		t.Errorf("persisted total = %v", repo.upserted.TotalAmount)
	}
	if len(repo.upserted.ResultJSON) == 0 {
		t.Error("persisted result JSON is empty")
	}

	if len(repo.history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(repo.history))
	}
	if repo.history[0].Stage != "process" {
		t.Errorf("history stage = %q, want %q", repo.history[0].Stage, "process")
	}
	if repo.history[0].RulesVersion != deduction.RulesVersion {
		t.Errorf("history rules version = %q, want %q", repo.history[0].RulesVersion, deduction.RulesVersion)
	}
	if audit.writes != 1 {
		t.Errorf("audit writes = %d, want 1", audit.writes)
	}
}

func TestProcessDocumentPageErrorDoesNotAbortRemainingPages(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := newProcessService(
		repo,
		&fakeStore{pages: 2},
		&fakeRecognizer{err: errors.New("ocr timeout")},
		&fakeClassifier{category: enum.CategorySavingsInvest, subCategory: enum.SubCategoryLifeInsurance},
		&fakeVerifier{matched: true},
		&fakeAudit{},
		extractedRecord(),
	)

	out, err := svc.ProcessDocument(context.Background(), uuid.New(), "สมชาย ใจดี", "receipt.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if len(out.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(out.Pages))
	}
	if out.Pages[0].Error == "" || out.Pages[0].Record != nil {
		t.Errorf("page 1 = %+v, want error only", out.Pages[0])
	}
	if out.Pages[1].Record == nil {
		t.Fatalf("page 2 record is nil, error = %q", out.Pages[1].Error)
	}

	// Denormalized columns come from the first page that succeeded.
	if repo.upserted.DeductionStatus != enum.DocumentPassed {
		t.Errorf("persisted status = %q, want %q", repo.upserted.DeductionStatus, enum.DocumentPassed)
	}
}

func TestProcessDocumentGateRejectionPersisted(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := newProcessService(
		repo,
		&fakeStore{pages: 1},
		&fakeRecognizer{},
		&fakeClassifier{category: enum.CategorySavingsInvest, subCategory: enum.SubCategoryLifeInsurance},
		&fakeVerifier{matched: false},
		&fakeAudit{},
		extractedRecord(),
	)

	out, err := svc.ProcessDocument(context.Background(), uuid.New(), "สมชาย ใจดี", "receipt.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	record := out.Pages[0].Record
	if record.DocumentDeductionStatus != enum.DocumentRejected {
		t.Fatalf("document status = %q, want %q", record.DocumentDeductionStatus, enum.DocumentRejected)
	}
	want := "ไม่สามารถลดหย่อนได้ เพราะ: " + deduction.ReasonSellerUnverified
	if record.DocumentDeductionReason != want {
		t.Errorf("reason = %q, want %q", record.DocumentDeductionReason, want)
	}
	if repo.upserted.DeductionReason != want {
		t.Errorf("persisted reason = %q, want %q", repo.upserted.DeductionReason, want)
	}
	if repo.history[0].Status != enum.DocumentRejected {
		t.Errorf("history status = %q, want %q", repo.history[0].Status, enum.DocumentRejected)
	}
}

func TestProcessDocumentClassifierFailureIsNotFatal(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := newProcessService(
		repo,
		&fakeStore{pages: 1},
		&fakeRecognizer{},
		&fakeClassifier{err: errors.New("classifier unavailable")},
		&fakeVerifier{matched: true},
		&fakeAudit{},
		extractedRecord(),
	)

	out, err := svc.ProcessDocument(context.Background(), uuid.New(), "สมชาย ใจดี", "receipt.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	record := out.Pages[0].Record
	if record == nil {
		t.Fatalf("page record is nil, error = %q", out.Pages[0].Error)
	}
	if record.SubCategory != enum.SubCategoryUnknown {
		t.Errorf("sub-category = %q, want %q", record.SubCategory, enum.SubCategoryUnknown)
	}
	// Unknown items are eligible by default, so the document still passes.
	if record.DocumentDeductionStatus != enum.DocumentPassed {
		t.Errorf("document status = %q, want %q", record.DocumentDeductionStatus, enum.DocumentPassed)
	}
}

func TestProcessDocumentAuditFailureIsNotFatal(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := newProcessService(
		repo,
		&fakeStore{pages: 1},
		&fakeRecognizer{},
		&fakeClassifier{category: enum.CategorySavingsInvest, subCategory: enum.SubCategoryLifeInsurance},
		&fakeVerifier{matched: true},
		&fakeAudit{err: errors.New("disk full")},
		extractedRecord(),
	)

	out, err := svc.ProcessDocument(context.Background(), uuid.New(), "สมชาย ใจดี", "receipt.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if out.Pages[0].Record == nil {
		t.Fatalf("page record is nil, error = %q", out.Pages[0].Error)
	}
	if repo.upserted == nil {
		t.Error("document was not persisted")
	}
}
