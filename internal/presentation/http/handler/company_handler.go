package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/repository"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/verification"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/dto/response"
)

// CompanyHandler maintains the VAT registry mirror used for seller
// verification. Admin only.
type CompanyHandler struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyRepo repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companyRepo: companyRepo}
}

// Upsert handles registering or updating a company
// @Summary Upsert Company
// @Description Register a company name under its 13-digit tax ID
// @Tags companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /companies [post]
func (h *CompanyHandler) Upsert(c *gin.Context) {
	if !IsAdmin(c) {
		response.Forbidden(c, "Admin role required")
		return
	}

	var req struct {
		TaxID string `json:"tax_id" binding:"required"`
		Name  string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	taxID := verification.NormalizeTaxID(req.TaxID)
	if len(taxID) != 13 {
		response.BadRequest(c, "Tax ID must contain exactly 13 digits")
		return
	}

	company := &entity.Company{TaxID: taxID, Name: req.Name}
	if err := h.companyRepo.Upsert(c.Request.Context(), company); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company saved successfully", gin.H{"company": company})
}
