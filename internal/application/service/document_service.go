package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/repository"
	"github.com/keingkrai/process-tax-ocr/pkg/apperror"
	"github.com/keingkrai/process-tax-ocr/pkg/pagination"
)

// DocumentService handles stored-document operations
type DocumentService struct {
	documentRepo repository.DocumentRepository
}

// NewDocumentService creates a new document service
func NewDocumentService(documentRepo repository.DocumentRepository) *DocumentService {
	return &DocumentService{documentRepo: documentRepo}
}

// ListDocuments returns the employee's documents, newest first
func (s *DocumentService) ListDocuments(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Document], error) {
	documents, total, err := s.documentRepo.List(ctx, employeeID, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(documents, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetDocument returns one document, enforcing ownership unless the caller is
// an admin
func (s *DocumentService) GetDocument(ctx context.Context, employeeID, id uuid.UUID, isAdmin bool) (*entity.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NewNotFoundError("Document")
	}
	if !isAdmin && document.EmployeeID != employeeID {
		return nil, apperror.ErrForbidden
	}
	return document, nil
}

// DeleteDocument removes a document after an ownership check
func (s *DocumentService) DeleteDocument(ctx context.Context, employeeID, id uuid.UUID, isAdmin bool) error {
	document, err := s.GetDocument(ctx, employeeID, id, isAdmin)
	if err != nil {
		return err
	}
	return s.documentRepo.Delete(ctx, document.ID)
}

// GetHistory returns the processing trail for a document
func (s *DocumentService) GetHistory(ctx context.Context, employeeID, id uuid.UUID, isAdmin bool) ([]entity.DocumentResultHistory, error) {
	if _, err := s.GetDocument(ctx, employeeID, id, isAdmin); err != nil {
		return nil, err
	}
	return s.documentRepo.ListHistory(ctx, id)
}
