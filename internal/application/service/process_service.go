package service

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/keingkrai/process-tax-ocr/internal/domain/deduction"
	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
	"github.com/keingkrai/process-tax-ocr/internal/domain/repository"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/storage"
	"github.com/keingkrai/process-tax-ocr/internal/normalize"
)

// PageRecognizer turns one page image into markdown text.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, imagePath, mimeType string) (string, error)
}

// InvoiceExtractor turns recognized markdown into a structured invoice record.
type InvoiceExtractor interface {
	Extract(ctx context.Context, markdown string, invoiceType enum.InvoiceType) (*entity.InvoiceRecord, error)
}

// TitleClassifier maps a document title to a deduction category.
type TitleClassifier interface {
	Classify(ctx context.Context, title string) (enum.Category, enum.SubCategory, error)
}

// SellerVerifier checks the extracted seller against the company registry.
type SellerVerifier interface {
	Verify(ctx context.Context, sellerName, taxID string) (*entity.SellerVerification, error)
}

// AuditWriter persists the per-page result artifact.
type AuditWriter interface {
	WritePage(fileName string, page int, result any) error
}

// DocumentStore persists uploads and splits them into page images.
type DocumentStore interface {
	Save(r io.Reader, originalName string) (*storage.StoredFile, error)
	PageCount(file *storage.StoredFile) (int, error)
	PageImages(file *storage.StoredFile, pageCount int) ([]storage.PageImage, error)
}

// PageResult is the outcome for one page of an upload. Exactly one of Record
// and Error is set.
type PageResult struct {
	Page   int                   `json:"page"`
	Record *entity.InvoiceRecord `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// ProcessOutput is the result of running the pipeline on one upload.
type ProcessOutput struct {
	Document *entity.Document `json:"document"`
	Pages    []PageResult     `json:"pages"`
}

// ProcessService runs the document pipeline: store the upload, split it into
// pages, then per page OCR, extraction, classification, seller verification
// and the deduction check, and finally persist the annotated result.
type ProcessService struct {
	documentRepo repository.DocumentRepository
	store        DocumentStore
	recognizer   PageRecognizer
	extractor    InvoiceExtractor
	classifier   TitleClassifier
	verifier     SellerVerifier
	audit        AuditWriter
	evaluator    *deduction.Evaluator
}

// NewProcessService creates a new process service
func NewProcessService(
	documentRepo repository.DocumentRepository,
	store DocumentStore,
	recognizer PageRecognizer,
	extractor InvoiceExtractor,
	classifier TitleClassifier,
	verifier SellerVerifier,
	audit AuditWriter,
	evaluator *deduction.Evaluator,
) *ProcessService {
	return &ProcessService{
		documentRepo: documentRepo,
		store:        store,
		recognizer:   recognizer,
		extractor:    extractor,
		classifier:   classifier,
		verifier:     verifier,
		audit:        audit,
		evaluator:    evaluator,
	}
}

// ProcessDocument runs the full pipeline for one upload on behalf of the
// authenticated employee. employeeName is compared against the extracted
// buyer by the document gates. A failing page is recorded in its PageResult
// and does not abort the remaining pages.
func (s *ProcessService) ProcessDocument(ctx context.Context, employeeID uuid.UUID, employeeName, originalName string, r io.Reader) (*ProcessOutput, error) {
	stored, err := s.store.Save(r, originalName)
	if err != nil {
		return nil, err
	}

	pageCount, err := s.store.PageCount(stored)
	if err != nil {
		return nil, err
	}
	images, err := s.store.PageImages(stored, pageCount)
	if err != nil {
		return nil, err
	}

	pages := make([]PageResult, 0, len(images))
	for i, img := range images {
		pageNo := i + 1
		result := PageResult{Page: pageNo}

		record, err := s.processPage(ctx, img, employeeName)
		if err != nil {
			result.Error = err.Error()
			log.Printf("process: %s page %d failed: %v", originalName, pageNo, err)
		} else {
			result.Record = record
			if err := s.audit.WritePage(originalName, pageNo, record); err != nil {
				log.Printf("process: write audit artifact for %s page %d: %v", originalName, pageNo, err)
			}
		}
		pages = append(pages, result)
	}

	document, err := s.persist(ctx, employeeID, employeeName, stored, pages)
	if err != nil {
		return nil, err
	}

	return &ProcessOutput{Document: document, Pages: pages}, nil
}

func (s *ProcessService) processPage(ctx context.Context, img storage.PageImage, employeeName string) (*entity.InvoiceRecord, error) {
	markdown, err := s.recognizer.RecognizePage(ctx, img.Path, img.MimeType)
	if err != nil {
		return nil, err
	}

	record, err := s.extractor.Extract(ctx, markdown, enum.DetectInvoiceType(markdown))
	if err != nil {
		return nil, err
	}

	// Classification failure downgrades the page to the unknown category
	// rather than failing it; the deduction check still runs.
	category, subCategory, err := s.classifier.Classify(ctx, record.Title)
	if err != nil {
		log.Printf("process: classify %q: %v", record.Title, err)
		subCategory = enum.SubCategoryUnknown
	}
	record.Category = category
	record.SubCategory = subCategory
	for i := range record.Items {
		if record.Items[i].Category == "" {
			record.Items[i].Category = category
		}
		if record.Items[i].SubCategory == "" {
			record.Items[i].SubCategory = subCategory
		}
	}

	verification, err := s.verifier.Verify(ctx, record.Seller, record.TaxID)
	if err != nil {
		return nil, err
	}
	record.Verification = *verification

	return s.evaluator.Evaluate(record, employeeName), nil
}

// persist upserts the document row, denormalizing scalar columns from the
// first page that produced a record, and appends a history entry.
func (s *ProcessService) persist(ctx context.Context, employeeID uuid.UUID, employeeName string, stored *storage.StoredFile, pages []PageResult) (*entity.Document, error) {
	document := &entity.Document{
		EmployeeID:    employeeID,
		MemberName:    employeeName,
		OriginalName:  stored.OriginalName,
		FilePath:      stored.Path,
		MimeType:      stored.MimeType,
		FileSizeBytes: stored.Size,
		SHA256:        stored.SHA256,
	}

	if record := firstRecord(pages); record != nil {
		document.VendorName = strPtr(record.Seller)
		document.BuyerName = strPtr(record.Buyer)
		document.TaxID = strPtr(record.TaxID)
		document.InvoiceNo = strPtr(record.InvoiceNo)
		document.DocDate = normalize.ParseDocumentDate(record.DocumentDate)
		document.TotalAmount = normalize.DocumentTotal(record)
		document.DeductionStatus = record.DocumentDeductionStatus
		document.DeductionReason = record.DocumentDeductionReason
	}

	if resultJSON, err := json.Marshal(pages); err == nil {
		document.ResultJSON = resultJSON
	}

	saved, err := s.documentRepo.Upsert(ctx, document)
	if err != nil {
		return nil, err
	}

	history := &entity.DocumentResultHistory{
		DocumentID:   saved.ID,
		Stage:        "process",
		ResultJSON:   document.ResultJSON,
		Status:       document.DeductionStatus,
		Reason:       document.DeductionReason,
		RulesVersion: deduction.RulesVersion,
	}
	if err := s.documentRepo.AppendHistory(ctx, history); err != nil {
		return nil, err
	}

	return saved, nil
}

func firstRecord(pages []PageResult) *entity.InvoiceRecord {
	for _, page := range pages {
		if page.Record != nil {
			return page.Record
		}
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
