package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/pkg/pagination"
)

// DocumentRepository defines the interface for document data operations.
// Upsert deduplicates by (employee_id, sha256): re-uploading the same file
// refreshes the existing row instead of creating a duplicate.
type DocumentRepository interface {
	Upsert(ctx context.Context, document *entity.Document) (*entity.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetByEmployeeAndSHA256(ctx context.Context, employeeID uuid.UUID, sha256 string) (*entity.Document, error)
	List(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AppendHistory(ctx context.Context, history *entity.DocumentResultHistory) error
	ListHistory(ctx context.Context, documentID uuid.UUID) ([]entity.DocumentResultHistory, error)
}
