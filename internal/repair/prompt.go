package repair

import (
	"encoding/json"
	"fmt"
	"strings"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/validator"
)

var categoryGuidance = map[domain.Category][]string{
	domain.CategoryInvoice: {
		"For date fields, ensure they are in YYYY-MM-DD format",
		"For status fields, ensure they match one of the allowed options",
		"For amount fields, ensure they are valid numbers",
		"If a due date is missing but payment terms are available, calculate a reasonable due date",
	},
	domain.CategoryProduct: {
		"For price fields, ensure they are valid numbers",
		"For quantity fields, ensure they are valid integers",
		"If generating a product name, make it descriptive and realistic",
		"If generating a SKU, follow common formats like ABC-12345",
	},
	domain.CategoryCustomer: {
		"For email fields, ensure they follow the format name@domain.com",
		"For phone fields, ensure they are in a standard format",
		"If generating a customer name, make it realistic",
	},
}

var categoryNoun = map[domain.Category]string{
	domain.CategoryInvoice:  "an invoice",
	domain.CategoryProduct:  "a product",
	domain.CategoryCustomer: "a customer record",
}

// BuildRepairPrompt renders the prompt asking the model to fix one record.
func BuildRepairPrompt(category domain.Category, record domain.Record, spec validator.FieldSpec, issues []domain.Issue) (string, error) {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	specJSON, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding field spec: %w", err)
	}
	issuesJSON, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding issues: %w", err)
	}

	noun := categoryNoun[category]
	if noun == "" {
		noun = "a record"
	}
	entity := strings.TrimPrefix(strings.TrimPrefix(noun, "an "), "a ")

	guidelines := []string{
		"For missing required fields, generate reasonable values based on the field definition and other available data",
		"For invalid values, correct them to match the expected format or type",
	}
	guidelines = append(guidelines, categoryGuidance[category]...)
	guidelines = append(guidelines, "Maintain all other fields that don't have issues")

	var sb strings.Builder
	fmt.Fprintf(&sb, "I have %s with data inconsistencies that need to be fixed. ", noun)
	sb.WriteString("Please analyze the issues and provide appropriate corrections based on the field definitions and available data.\n\n")
	fmt.Fprintf(&sb, "Current %s data:\n%s\n\n", entity, recordJSON)
	fmt.Fprintf(&sb, "Field definitions:\n%s\n\n", specJSON)
	fmt.Fprintf(&sb, "Issues detected:\n%s\n\n", issuesJSON)
	fmt.Fprintf(&sb, "Please provide a corrected version of the %s with these guidelines:\n", entity)
	for i, g := range guidelines {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, g)
	}
	fmt.Fprintf(&sb, "\nReturn ONLY a valid JSON object with the fixed %s data and nothing else.\n", entity)
	return sb.String(), nil
}
