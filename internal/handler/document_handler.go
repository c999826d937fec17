package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/service"
)

// DocumentHandler handles document upload endpoints.
type DocumentHandler struct {
	pipeline       service.PipelineService
	maxUploadBytes int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(pipeline service.PipelineService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{pipeline: pipeline, maxUploadBytes: maxUploadBytes}
}

// Extract handles POST /api/v1/documents/extract
func (h *DocumentHandler) Extract(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.pipeline.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result.Data)
}

// Process handles POST /api/v1/documents/process
func (h *DocumentHandler) Process(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.pipeline.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// readUpload pulls the multipart file and optional spreadsheet preview out of
// the request. On failure the error response is already written.
func (h *DocumentHandler) readUpload(c *gin.Context) (service.ProcessInput, bool) {
	if h.maxUploadBytes > 0 {
		// leave room for the multipart envelope and the preview field
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
			return service.ProcessInput{}, false
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ProcessInput{}, false
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return service.ProcessInput{}, false
	}

	mimeType, err := domain.ResolveMimeType(header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		HandleError(c, err)
		return service.ProcessInput{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return service.ProcessInput{}, false
	}
	if len(data) == 0 {
		HandleError(c, domain.ErrEmptyFile)
		return service.ProcessInput{}, false
	}

	log.WithFields(log.Fields{
		"file":      header.Filename,
		"mime_type": mimeType,
		"size":      len(data),
	}).Info("documentHandler: received upload")

	return service.ProcessInput{
		FileBytes:          data,
		MimeType:           mimeType,
		FileName:           header.Filename,
		SpreadsheetPreview: c.PostForm("spreadsheet_preview"),
	}, true
}
