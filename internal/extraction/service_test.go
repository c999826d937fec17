package extraction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/extraction"
	"ledgerlens/internal/port"
	"ledgerlens/mocks"
)

func modelReturns(text string) *port.GenerateOutput {
	return &port.GenerateOutput{Text: text, Model: "test-model"}
}

func TestExtract_PDF_ProseWrappedResponse(t *testing.T) {
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.MimeType == domain.MimePDF &&
			string(in.Attachment) == "%PDF" &&
			in.JSONMode &&
			in.Prompt != ""
	})).Return(modelReturns("Sure! Here is the data:\n```json\n"+
		`{"invoices":[{"invoiceNumber":"INV-1","amount":10}],"products":[],"customers":[{"name":"Acme"}]}`+
		"\n```"), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("%PDF"), MimeType: domain.MimePDF})

	require.NoError(t, err)
	require.Len(t, data.Invoices, 1)
	assert.Equal(t, "INV-1", data.Invoices[0]["invoiceNumber"])
	assert.Empty(t, data.Products)
	assert.NotNil(t, data.Products)
	require.Len(t, data.Customers, 1)
	client.AssertNumberOfCalls(t, "Generate", 1)
}

func TestExtract_NoJSONYieldsEmpty(t *testing.T) {
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).Return(modelReturns("I cannot read this document."), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("x"), MimeType: domain.MimePNG})

	require.NoError(t, err)
	assert.Equal(t, domain.EmptyCategoryData(), data)
}

func TestExtract_MissingKeysAndBadShapes(t *testing.T) {
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(modelReturns(`{"invoices":"none","products":[{"name":"W"}, 3, "x"]}`), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("%PDF"), MimeType: domain.MimePDF})

	require.NoError(t, err)
	assert.Empty(t, data.Invoices)
	require.Len(t, data.Products, 1)
	assert.Equal(t, "W", data.Products[0]["name"])
	assert.Empty(t, data.Customers)
}

func TestExtract_SchemaDropsRejectedRecords(t *testing.T) {
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return(modelReturns(`{"invoices":[{},{"invoiceNumber":"INV-2"},{}],"products":null,"customers":[{"name":"Jane"}],"notes":"ok"}`), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("%PDF"), MimeType: domain.MimePDF})

	require.NoError(t, err)
	require.Len(t, data.Invoices, 1)
	assert.Equal(t, "INV-2", data.Invoices[0]["invoiceNumber"])
	assert.NotNil(t, data.Products)
	assert.Empty(t, data.Products)
	require.Len(t, data.Customers, 1)
}

func TestExtract_ModelFailure(t *testing.T) {
	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	svc := extraction.NewService(client, extraction.Options{})

	_, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("%PDF"), MimeType: domain.MimePDF})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExtract_UnsupportedType(t *testing.T) {
	client := new(mocks.MockModelClient)
	svc := extraction.NewService(client, extraction.Options{})

	_, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("x"), MimeType: "text/plain"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestExtract_SpreadsheetRendersTextPrompt(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]any{
		"Sales": {
			{"Invoice #", "Customer", "Amount"},
			{"INV-7", "Initech", 300},
		},
	})

	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.Attachment == nil &&
			containsAll(in.Prompt, "Excel spreadsheet data", "Invoice #, Customer, Amount", "Sheet: Sales", `"Invoice #": "INV-7"`)
	})).Return(modelReturns(`{"invoices":[{"invoiceNumber":"INV-7"}],"products":[],"customers":[]}`), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{FileBytes: wb, MimeType: domain.MimeXLSX})

	require.NoError(t, err)
	require.Len(t, data.Invoices, 1)
	client.AssertExpectations(t)
}

func TestExtract_PreviewWinsOverRendering(t *testing.T) {
	preview := "Sheet: Legacy\nHeaders: Customer Name, E-mail\n[{\"Customer Name\":\"Jane\"}]"

	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return containsAll(in.Prompt, "Sheet: Legacy", "Customer Name, E-mail")
	})).Return(modelReturns(`{"customers":[{"name":"Jane"}]}`), nil)

	svc := extraction.NewService(client, extraction.Options{})

	data, err := svc.Extract(context.Background(), extraction.Input{
		FileBytes:          []byte("not really an xls"),
		MimeType:           domain.MimeXLS,
		SpreadsheetPreview: preview,
	})

	require.NoError(t, err)
	require.Len(t, data.Customers, 1)
}

func TestExtract_LegacyXLSRenderedWithoutPreview(t *testing.T) {
	data := buildXLS(t, "Customers", [][]any{
		{"Customer Name", "E-mail"},
		{"Jane Doe", "jane@acme.com"},
	})

	client := new(mocks.MockModelClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.Attachment == nil &&
			containsAll(in.Prompt, "Sheet: Customers", "Customer Name, E-mail", `"Customer Name": "Jane Doe"`)
	})).Return(modelReturns(`{"customers":[{"name":"Jane Doe","email":"jane@acme.com"}]}`), nil)

	svc := extraction.NewService(client, extraction.Options{})

	got, err := svc.Extract(context.Background(), extraction.Input{FileBytes: data, MimeType: domain.MimeXLS})

	require.NoError(t, err)
	require.Len(t, got.Customers, 1)
	client.AssertExpectations(t)
}

func TestExtract_UnreadableXLSWithoutPreview(t *testing.T) {
	client := new(mocks.MockModelClient)
	svc := extraction.NewService(client, extraction.Options{})

	_, err := svc.Extract(context.Background(), extraction.Input{FileBytes: []byte("legacy binary workbook"), MimeType: domain.MimeXLS})

	assert.ErrorIs(t, err, domain.ErrSpreadsheetUnreadable)
	assert.False(t, errors.Is(err, domain.ErrExtractionFailed))
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if countOccurrences(s, sub) == 0 {
			return false
		}
	}
	return true
}
