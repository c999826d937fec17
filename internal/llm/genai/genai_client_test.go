package genai_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"ledgerlens/internal/llm"
	"ledgerlens/internal/llm/genai"
)

func TestClassifyError_RateLimit(t *testing.T) {
	apiErr := &googleapi.Error{
		Code:    http.StatusTooManyRequests,
		Message: "quota exceeded",
		Header:  http.Header{"Retry-After": []string{"20"}},
	}

	err := genai.ClassifyError(apiErr)

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "genai", rlErr.Provider)
	assert.Equal(t, 20.0, rlErr.RetryAfter.Seconds())
}

func TestClassifyError_Status(t *testing.T) {
	err := genai.ClassifyError(&googleapi.Error{Code: http.StatusBadRequest, Message: "bad"})

	var statusErr *llm.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestClassifyError_Other(t *testing.T) {
	base := errors.New("dial tcp: refused")

	err := genai.ClassifyError(base)

	assert.ErrorIs(t, err, base)
	var rlErr *llm.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}
