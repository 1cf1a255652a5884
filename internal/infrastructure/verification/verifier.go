// Package verification matches the seller printed on a receipt against the
// company registered under the extracted tax ID.
package verification

import (
	"context"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	domainRepo "github.com/keingkrai/process-tax-ocr/internal/domain/repository"
)

// ReasonInvalidTaxID is recorded when the tax ID is absent or not 13 digits.
const ReasonInvalidTaxID = "invalid_or_missing_tax_id"

const taxIDLength = 13

// defaultThreshold is the similarity score (0-100) at which the registry
// name and the receipt name count as the same company.
const defaultThreshold = 95

var nonDigits = regexp.MustCompile(`\D`)

// Verifier resolves tax IDs through the company registry and fuzzily
// compares names.
type Verifier struct {
	companies domainRepo.CompanyRepository
	threshold int
}

// NewVerifier creates a verifier backed by the given registry.
func NewVerifier(companies domainRepo.CompanyRepository) *Verifier {
	return &Verifier{companies: companies, threshold: defaultThreshold}
}

// Verify checks the extracted seller and tax ID. A missing or malformed tax
// ID leaves Matched nil (undetermined); otherwise Matched reports whether
// the registry name is close enough to the name on the receipt.
func (v *Verifier) Verify(ctx context.Context, sellerName, taxID string) (*entity.SellerVerification, error) {
	seller := strings.TrimSpace(sellerName)
	normalized := NormalizeTaxID(taxID)

	if len(normalized) != taxIDLength {
		return &entity.SellerVerification{
			Matched:           nil,
			SellerFromReceipt: seller,
			Reason:            ReasonInvalidTaxID,
		}, nil
	}

	registered := ""
	company, err := v.companies.GetByTaxID(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if company != nil {
		registered = strings.TrimSpace(company.Name)
	}

	matched := false
	if registered != "" {
		matched = fuzzy.Ratio(registered, seller) >= v.threshold
	}

	return &entity.SellerVerification{
		Matched:           &matched,
		SellerFromReceipt: seller,
		SellerFromTaxID:   registered,
	}, nil
}

// NormalizeTaxID strips everything but digits.
func NormalizeTaxID(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
