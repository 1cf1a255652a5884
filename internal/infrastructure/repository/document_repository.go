package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	domainRepo "github.com/keingkrai/process-tax-ocr/internal/domain/repository"
	"github.com/keingkrai/process-tax-ocr/pkg/pagination"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) domainRepo.DocumentRepository {
	return &documentRepository{db: db}
}

// Upsert stores a document, deduplicating by (employee_id, sha256). An
// existing row keeps its previous extracted fields where the new run produced
// nothing (the incoming nil never clobbers a stored value).
func (r *documentRepository) Upsert(ctx context.Context, document *entity.Document) (*entity.Document, error) {
	existing, err := r.GetByEmployeeAndSHA256(ctx, document.EmployeeID, document.SHA256)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
			return nil, err
		}
		return document, nil
	}

	existing.MemberName = document.MemberName
	existing.OriginalName = document.OriginalName
	existing.FilePath = document.FilePath
	existing.MimeType = document.MimeType
	existing.FileSizeBytes = document.FileSizeBytes
	if document.VendorName != nil {
		existing.VendorName = document.VendorName
	}
	if document.BuyerName != nil {
		existing.BuyerName = document.BuyerName
	}
	if document.TaxID != nil {
		existing.TaxID = document.TaxID
	}
	if document.InvoiceNo != nil {
		existing.InvoiceNo = document.InvoiceNo
	}
	if document.DocDate != nil {
		existing.DocDate = document.DocDate
	}
	if document.TotalAmount != nil {
		existing.TotalAmount = document.TotalAmount
	}
	if document.DeductionStatus.IsSet() {
		existing.DeductionStatus = document.DeductionStatus
		existing.DeductionReason = document.DeductionReason
	}
	if len(document.ResultJSON) > 0 {
		existing.ResultJSON = document.ResultJSON
	}

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &document, err
}

func (r *documentRepository) GetByEmployeeAndSHA256(ctx context.Context, employeeID uuid.UUID, sha256 string) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).
		First(&document, "employee_id = ? AND sha256 = ?", employeeID, sha256).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &document, err
}

func (r *documentRepository) List(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Document, int64, error) {
	var documents []entity.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("employee_id = ?", employeeID)

	if search != "" {
		query = query.Where("original_name ILIKE ? OR vendor_name ILIKE ? OR invoice_no ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&documents).Error

	return documents, total, err
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Document{}, "id = ?", id).Error
}

func (r *documentRepository) AppendHistory(ctx context.Context, history *entity.DocumentResultHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *documentRepository) ListHistory(ctx context.Context, documentID uuid.UUID) ([]entity.DocumentResultHistory, error) {
	var rows []entity.DocumentResultHistory
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
