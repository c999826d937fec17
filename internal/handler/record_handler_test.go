package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/handler"
	"ledgerlens/internal/service"
	"ledgerlens/internal/validator"
	"ledgerlens/mocks"
)

func jsonContext(path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestRecordHandler_Detect(t *testing.T) {
	pipeline := new(mocks.MockPipelineService)
	h := handler.NewRecordHandler(pipeline)

	pipeline.On("Detect", mock.MatchedBy(func(d domain.CategoryData) bool {
		return len(d.Products) == 1 && d.Invoices != nil && d.Customers != nil
	})).Return(&service.DetectResult{
		Records:    []validator.RecordIssues{{Category: domain.CategoryProduct, Index: 0, ItemName: "W", Issues: []domain.Issue{{Field: "price", Kind: domain.IssueMissing}}, MissingFields: []string{"price"}}},
		IssueCount: 1,
	})

	c, w := jsonContext("/api/v1/records/detect", `{"products":[{"name":"W","price":0}]}`)
	h.Detect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"issue":"missing"`)
	assert.Contains(t, w.Body.String(), `"missingFields":["price"]`)
	pipeline.AssertExpectations(t)
}

func TestRecordHandler_Validate(t *testing.T) {
	pipeline := new(mocks.MockPipelineService)
	h := handler.NewRecordHandler(pipeline)

	pipeline.On("Validate", mock.Anything, mock.Anything).Return(&service.ValidationResult{
		Before:  domain.EmptyCategoryData(),
		After:   domain.EmptyCategoryData(),
		Changes: []domain.ChangeRecord{},
	}, nil)

	c, w := jsonContext("/api/v1/records/validate", `{"invoices":[],"products":[],"customers":[]}`)
	h.Validate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changes":[]`)
}

func TestRecordHandler_InvalidBody(t *testing.T) {
	pipeline := new(mocks.MockPipelineService)
	h := handler.NewRecordHandler(pipeline)

	c, w := jsonContext("/api/v1/records/validate", `{"invoices":"nope"}`)
	h.Validate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CATEGORY_DATA", decodeResponse(t, w).Error.Code)
	pipeline.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}
