package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/keingkrai/process-tax-ocr/internal/application/service"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/storage"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/dto/response"
	"github.com/keingkrai/process-tax-ocr/pkg/apperror"
)

// ProcessHandler handles document processing HTTP requests
type ProcessHandler struct {
	processService *service.ProcessService
	maxUploadSize  int64
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(processService *service.ProcessService, maxUploadSize int64) *ProcessHandler {
	return &ProcessHandler{processService: processService, maxUploadSize: maxUploadSize}
}

// Process handles uploading and processing a tax document
// @Summary Process Document
// @Description Upload a tax invoice (PDF, JPEG or PNG) and run the deduction pipeline
// @Tags documents
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Tax invoice file"
// @Success 200 {object} response.APIResponse
// @Failure 413 {object} response.APIResponse
// @Failure 415 {object} response.APIResponse
// @Router /documents/process [post]
func (h *ProcessHandler) Process(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	userName := GetUserName(c)
	if userName == "" {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.Error(c, apperror.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	output, err := h.processService.ProcessDocument(c.Request.Context(), *userID, userName, fileHeader.Filename, file)
	if err != nil {
		var unsupported *storage.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			response.Error(c, apperror.ErrUnsupportedFile)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Document processed successfully", output)
}
