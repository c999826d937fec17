package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/llm"
	"ledgerlens/internal/port"
	"ledgerlens/mocks"
)

var fallbackInput = port.GenerateInput{Prompt: "extract", Attachment: []byte("pdf"), MimeType: "application/pdf", JSONMode: true}

func output(model string) *port.GenerateOutput {
	return &port.GenerateOutput{Text: `{"invoices":[]}`, Model: model}
}

func TestFallbackClient_FirstSucceeds(t *testing.T) {
	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).Return(output("gemini"), nil)

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "openai"})

	out, err := fc.Generate(context.Background(), fallbackInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", out.Model)
	c2.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFallbackClient_FirstFails_SecondSucceeds(t *testing.T) {
	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).Return(nil, errors.New("boom"))
	c2.On("Generate", mock.Anything, fallbackInput).Return(output("openai"), nil)

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "openai"})

	out, err := fc.Generate(context.Background(), fallbackInput)

	require.NoError(t, err)
	assert.Equal(t, "openai", out.Model)
}

func TestFallbackClient_RateLimitedOpensCircuit(t *testing.T) {
	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).
		Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 60)).Once()
	c2.On("Generate", mock.Anything, fallbackInput).Return(output("claude"), nil)

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "claude"})

	_, err := fc.Generate(context.Background(), fallbackInput)
	require.NoError(t, err)

	out, err := fc.Generate(context.Background(), fallbackInput)
	require.NoError(t, err)
	assert.Equal(t, "claude", out.Model)
	c1.AssertNumberOfCalls(t, "Generate", 1)
	c2.AssertNumberOfCalls(t, "Generate", 2)
}

func TestFallbackClient_AllRateLimited(t *testing.T) {
	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 60))
	c2.On("Generate", mock.Anything, fallbackInput).Return(nil, llm.NewRateLimitError("openai", errors.New("429"), 30))

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "openai"})

	out, err := fc.Generate(context.Background(), fallbackInput)

	assert.Nil(t, out)
	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackClient_AllFail(t *testing.T) {
	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).Return(nil, errors.New("error 1"))
	c2.On("Generate", mock.Anything, fallbackInput).Return(nil, errors.New("error 2"))

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "openai"})

	_, err := fc.Generate(context.Background(), fallbackInput)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
	assert.Contains(t, err.Error(), "error 2")
	var rlErr *llm.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackClient_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c1 := new(mocks.MockModelClient)
	c2 := new(mocks.MockModelClient)
	c1.On("Generate", mock.Anything, fallbackInput).Return(nil, context.Canceled)

	fc := llm.NewFallbackClient([]port.ModelClient{c1, c2}, []string{"gemini", "openai"})

	_, err := fc.Generate(ctx, fallbackInput)

	assert.ErrorIs(t, err, context.Canceled)
	c2.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
