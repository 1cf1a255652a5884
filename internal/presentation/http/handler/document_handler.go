package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/keingkrai/process-tax-ocr/internal/application/service"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/storage"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/dto/response"
	"github.com/keingkrai/process-tax-ocr/pkg/pagination"
	"github.com/keingkrai/process-tax-ocr/pkg/utils"
)

// DocumentHandler handles stored-document HTTP requests
type DocumentHandler struct {
	documentService *service.DocumentService
	fileStore       *storage.FileStore
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService, fileStore *storage.FileStore) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, fileStore: fileStore}
}

// List handles listing the employee's documents
// @Summary List Documents
// @Description List the authenticated employee's documents
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search by file name or vendor"
// @Success 200 {object} response.APIResponse
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Validate()

	result, err := h.documentService.ListDocuments(c.Request.Context(), *userID, params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Documents retrieved successfully", result)
}

// Get handles fetching one document
// @Summary Get Document
// @Description Get a document with its processing result
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	document, err := h.documentService.GetDocument(c.Request.Context(), *userID, id, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document retrieved successfully", gin.H{"document": document})
}

// Delete handles deleting a document
// @Summary Delete Document
// @Description Delete a document
// @Tags documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document deleted successfully", nil)
}

// History handles fetching the processing trail for a document
// @Summary Document History
// @Description List processing runs recorded for a document
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /documents/{id}/history [get]
func (h *DocumentHandler) History(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	history, err := h.documentService.GetHistory(c.Request.Context(), *userID, id, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "History retrieved successfully", gin.H{"history": history})
}

// Download serves the stored file for a document
// @Summary Download Document
// @Description Download the original uploaded file
// @Tags documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.APIResponse
// @Router /documents/{id}/file [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	document, err := h.documentService.GetDocument(c.Request.Context(), *userID, id, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", document.MimeType)
	c.FileAttachment(h.fileStore.Resolve(document.FilePath), document.OriginalName)
}
