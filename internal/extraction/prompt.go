package extraction

import (
	"encoding/json"
	"strings"

	"ledgerlens/internal/validator"
)

const extractionExample = `{
  "invoices": [
    {
      "invoiceNumber": "INV-001",
      "date": "2023-05-15",
      "vendor": "ABC Company",
      "customer": "XYZ Corp",
      "amount": 1250.00,
      "status": "Paid"
    }
  ],
  "products": [
    {
      "name": "Widget Pro",
      "sku": "WP-123",
      "price": 49.99,
      "quantity": 10
    }
  ],
  "customers": [
    {
      "name": "XYZ Corp",
      "email": "contact@xyzcorp.com",
      "phone": "555-123-4567"
    }
  ]
}`

// BuildExtractionPrompt returns the single prompt sent with a document.
// headers is non-empty only for spreadsheet input.
func BuildExtractionPrompt(spreadsheet bool, headers []string) string {
	source := "document"
	if spreadsheet {
		source = "Excel spreadsheet data"
	}

	var sb strings.Builder
	sb.WriteString("Analyze this " + source + " and extract information into three categories.\n\n")
	sb.WriteString(`Your response MUST be a valid JSON object with exactly this structure:
{
  "invoices": [ array of invoice objects ],
  "products": [ array of product objects ],
  "customers": [ array of customer objects ]
}

DO NOT include any explanations, markdown formatting, or text before or after the JSON.
ONLY return the JSON object and nothing else.

For each category, extract the following fields:
`)
	sb.WriteString("\n1. INVOICES: " + fieldList(validator.InvoiceSpec()) + "\n")
	sb.WriteString("\n2. PRODUCTS: " + fieldList(validator.ProductSpec()) + "\n")
	sb.WriteString("\n3. CUSTOMERS: " + fieldList(validator.CustomerSpec()) + "\n")

	if spreadsheet && len(headers) > 0 {
		joined := strings.Join(headers, ", ")
		sb.WriteString("\nPay special attention to the column headers: " + joined + ".\n")
		sb.WriteString(`Use these headers to determine what type of data each column contains.
If you see headers like "Invoice #", "Invoice Number", or similar, extract that as invoiceNumber.
If you see headers related to dates, extract those as date or dueDate.
If you see headers related to amounts, prices, or totals, extract those as amount or price.
`)
	}

	sb.WriteString(`
If a field is not present in the document, omit it from the JSON.
If a category has no items, include an empty array for that category.

Field definitions:
`)
	sb.WriteString(fieldDefinitions())
	sb.WriteString("\n\nExample of the EXACT format I expect:\n")
	sb.WriteString(extractionExample)
	sb.WriteString("\n")
	return sb.String()
}

// AppendSpreadsheetText attaches rendered sheet text to an extraction prompt.
func AppendSpreadsheetText(prompt, text string) string {
	return prompt + "\n\nHere is the Excel data:\n" + text
}

func fieldList(spec validator.FieldSpec) string {
	return strings.Join(spec.Names(), ", ")
}

func fieldDefinitions() string {
	defs := map[string]validator.FieldSpec{
		"invoices":  validator.InvoiceSpec(),
		"products":  validator.ProductSpec(),
		"customers": validator.CustomerSpec(),
	}
	b, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
