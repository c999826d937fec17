package repair_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/jsonrecover"
	"ledgerlens/internal/llm"
	"ledgerlens/internal/port"
	"ledgerlens/internal/repair"
	"ledgerlens/internal/validator"
	"ledgerlens/mocks"
)

func productWithPriceString() (domain.Record, []domain.Issue) {
	rec := domain.Record{"name": "Widget", "price": "abc", "quantity": float64(3)}
	return rec, validator.Detect(rec, validator.ProductSpec())
}

func TestRepair_NoIssuesMakesNoCall(t *testing.T) {
	client := new(mocks.MockModelClient)
	svc := repair.NewService(client, nil, nil)
	rec := domain.Record{"name": "Acme"}

	got := svc.Repair(context.Background(), domain.CategoryCustomer, rec, nil)

	assert.Equal(t, rec, got)
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRepair_MergesAndCoerces(t *testing.T) {
	rec, issues := productWithPriceString()
	require.NotEmpty(t, issues)

	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.Attachment == nil && in.JSONMode
	})).Return(&port.GenerateOutput{Text: "Fixed:\n" + `{"name":"Widget","price":"$1,299.50","quantity":"4.6","sku":"WID-00001"}`}, nil)

	svc := repair.NewService(client, nil, nil)
	got := svc.Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.Equal(t, 1299.5, got["price"])
	assert.Equal(t, float64(5), got["quantity"])
	assert.Equal(t, "WID-00001", got["sku"])
	assert.Equal(t, "abc", rec["price"], "original must not be mutated")
	client.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRepair_UnparseablePriceFallsBack(t *testing.T) {
	rec, issues := productWithPriceString()
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(&port.GenerateOutput{Text: `{"price":"unknown"}`}, nil)

	got := repair.NewService(client, nil, nil).Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.Equal(t, "abc", got["price"])
}

func TestRepair_NullDoesNotOverwrite(t *testing.T) {
	rec := domain.Record{"invoiceNumber": "N/A", "date": "2024-01-05", "vendor": "V", "customer": "C", "amount": float64(10), "status": "Paid"}
	issues := validator.Detect(rec, validator.InvoiceSpec())
	require.Len(t, issues, 1)

	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(&port.GenerateOutput{Text: `{"invoiceNumber":"INV-9","vendor":null}`}, nil)

	got := repair.NewService(client, nil, nil).Repair(context.Background(), domain.CategoryInvoice, rec, issues)

	assert.Equal(t, "INV-9", got["invoiceNumber"])
	assert.Equal(t, "V", got["vendor"])
}

func TestRepair_ModelErrorKeepsOriginal(t *testing.T) {
	rec, issues := productWithPriceString()
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("gemini", errors.New("quota exceeded"), 0))

	got := repair.NewService(client, nil, nil).Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.Equal(t, rec, got)
}

func TestRepair_TimeoutKeepsOriginal(t *testing.T) {
	rec, issues := productWithPriceString()
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	got := repair.NewService(client, nil, nil).Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.Equal(t, rec, got)
}

func TestRepair_UnrecoverableResponseKeepsOriginal(t *testing.T) {
	rec, issues := productWithPriceString()
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(&port.GenerateOutput{Text: "Sorry, I can't help with that."}, nil)

	got := repair.NewService(client, nil, nil).Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.Equal(t, rec, got)
}

func TestRepair_CustomRecoverer(t *testing.T) {
	rec, issues := productWithPriceString()
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).Return(&port.GenerateOutput{Text: "ignored"}, nil)

	called := false
	recoverer := func(text string) jsonrecover.Result {
		called = true
		return jsonrecover.Result{Object: map[string]any{"price": float64(7)}}
	}

	got := repair.NewService(client, nil, recoverer).Repair(context.Background(), domain.CategoryProduct, rec, issues)

	assert.True(t, called)
	assert.Equal(t, float64(7), got["price"])
}
