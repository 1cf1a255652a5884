package repository

import (
	"context"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
)

// CompanyRepository defines the interface for the VAT registry mirror
type CompanyRepository interface {
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	Upsert(ctx context.Context, company *entity.Company) error
}
