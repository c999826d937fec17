package validator

import (
	"bytes"
	"encoding/json"

	"ledgerlens/internal/domain"
)

// Field is one named entry of a FieldSpec.
type Field struct {
	Name string
	Def  domain.FieldDef
}

// FieldSpec is the ordered field definition list for one category.
// It marshals to a JSON object whose keys keep the declared order.
type FieldSpec []Field

// Lookup returns the definition for name.
func (s FieldSpec) Lookup(name string) (domain.FieldDef, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Def, true
		}
	}
	return domain.FieldDef{}, false
}

// Names returns the field names in declared order.
func (s FieldSpec) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// MarshalJSON renders the spec as an ordered JSON object.
func (s FieldSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		def, err := json.Marshal(f.Def)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(def)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var invoiceSpec = FieldSpec{
	{"invoiceNumber", domain.FieldDef{Type: domain.FieldTypeString, Description: "Invoice identifier, usually formatted as INV-XXXX or similar", Required: true}},
	{"date", domain.FieldDef{Type: domain.FieldTypeDate, Description: "Invoice issue date in YYYY-MM-DD format", Required: true}},
	{"dueDate", domain.FieldDef{Type: domain.FieldTypeDate, Description: "Payment due date in YYYY-MM-DD format"}},
	{"vendor", domain.FieldDef{Type: domain.FieldTypeString, Description: "Company or entity issuing the invoice", Required: true}},
	{"customer", domain.FieldDef{Type: domain.FieldTypeString, Description: "Company or entity receiving the invoice", Required: true}},
	{"amount", domain.FieldDef{Type: domain.FieldTypeNumber, Description: "Total invoice amount", Required: true, ZeroIsUnset: true}},
	{"status", domain.FieldDef{Type: domain.FieldTypeEnum, Description: "Current payment status", Options: domain.InvoiceStatuses, Required: true}},
	{"paymentTerms", domain.FieldDef{Type: domain.FieldTypeString, Description: "Terms of payment, e.g., 'Net 30', 'Due on Receipt'"}},
}

var productSpec = FieldSpec{
	{"name", domain.FieldDef{Type: domain.FieldTypeString, Description: "Product name or title", Required: true}},
	{"sku", domain.FieldDef{Type: domain.FieldTypeString, Description: "Stock Keeping Unit, unique product identifier"}},
	{"description", domain.FieldDef{Type: domain.FieldTypeString, Description: "Detailed description of the product"}},
	{"price", domain.FieldDef{Type: domain.FieldTypeNumber, Description: "Unit price of the product", Required: true, ZeroIsUnset: true}},
	{"quantity", domain.FieldDef{Type: domain.FieldTypeInteger, Description: "Number of units available or ordered", Required: true}},
}

var customerSpec = FieldSpec{
	{"name", domain.FieldDef{Type: domain.FieldTypeString, Description: "Customer's full name or company name", Required: true}},
	{"email", domain.FieldDef{Type: domain.FieldTypeEmail, Description: "Customer's email address, format: name@domain.com"}},
	{"phone", domain.FieldDef{Type: domain.FieldTypePhone, Description: "Customer's phone number, various formats accepted"}},
	{"address", domain.FieldDef{Type: domain.FieldTypeString, Description: "Customer's physical address"}},
	{"id", domain.FieldDef{Type: domain.FieldTypeString, Description: "Unique customer identifier"}},
}

// InvoiceSpec returns the invoice field specification.
func InvoiceSpec() FieldSpec { return invoiceSpec }

// ProductSpec returns the product field specification.
func ProductSpec() FieldSpec { return productSpec }

// CustomerSpec returns the customer field specification.
func CustomerSpec() FieldSpec { return customerSpec }

// NameField is the record key used to label a record of the given category in reports.
func NameField(c domain.Category) string {
	if c == domain.CategoryInvoice {
		return "invoiceNumber"
	}
	return "name"
}

// ItemName reads the label of a record, or "" when it is not a string.
func ItemName(c domain.Category, r domain.Record) string {
	return r.String(NameField(c))
}
