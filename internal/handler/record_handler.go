package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/service"
)

// RecordHandler handles endpoints that operate on already-extracted records.
type RecordHandler struct {
	pipeline service.PipelineService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(pipeline service.PipelineService) *RecordHandler {
	return &RecordHandler{pipeline: pipeline}
}

// Detect handles POST /api/v1/records/detect
func (h *RecordHandler) Detect(c *gin.Context) {
	data, ok := bindCategoryData(c)
	if !ok {
		return
	}
	RespondOK(c, h.pipeline.Detect(data))
}

// Validate handles POST /api/v1/records/validate
func (h *RecordHandler) Validate(c *gin.Context) {
	data, ok := bindCategoryData(c)
	if !ok {
		return
	}

	result, err := h.pipeline.Validate(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func bindCategoryData(c *gin.Context) (domain.CategoryData, bool) {
	var data domain.CategoryData
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CATEGORY_DATA", "category data does not match expected format")
		return domain.CategoryData{}, false
	}
	return data.Normalize(), true
}
