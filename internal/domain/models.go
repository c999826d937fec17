package domain

// Record is a single extracted entity exactly as the model produced it.
// Keeping the loose JSON shape lets detection tell an absent field apart from
// a null, a zero, a placeholder or a non-numeric string.
type Record map[string]any

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the value of key if it holds a string, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return v
	}
}

// CategoryData is one immutable snapshot of extracted records.
type CategoryData struct {
	Invoices  []Record `json:"invoices"`
	Products  []Record `json:"products"`
	Customers []Record `json:"customers"`
}

// EmptyCategoryData returns a snapshot with three empty, non-nil arrays so it
// serializes as {"invoices":[],"products":[],"customers":[]}.
func EmptyCategoryData() CategoryData {
	return CategoryData{
		Invoices:  []Record{},
		Products:  []Record{},
		Customers: []Record{},
	}
}

// Clone deep-copies every record so the copy can be modified freely.
func (d CategoryData) Clone() CategoryData {
	return CategoryData{
		Invoices:  cloneRecords(d.Invoices),
		Products:  cloneRecords(d.Products),
		Customers: cloneRecords(d.Customers),
	}
}

// IsEmpty reports whether the snapshot holds no records at all.
func (d CategoryData) IsEmpty() bool {
	return len(d.Invoices) == 0 && len(d.Products) == 0 && len(d.Customers) == 0
}

// Records returns the record slice for a category.
func (d CategoryData) Records(c Category) []Record {
	switch c {
	case CategoryInvoice:
		return d.Invoices
	case CategoryProduct:
		return d.Products
	case CategoryCustomer:
		return d.Customers
	default:
		return nil
	}
}

// Normalize replaces nil slices with empty ones.
func (d CategoryData) Normalize() CategoryData {
	if d.Invoices == nil {
		d.Invoices = []Record{}
	}
	if d.Products == nil {
		d.Products = []Record{}
	}
	if d.Customers == nil {
		d.Customers = []Record{}
	}
	return d
}

func cloneRecords(in []Record) []Record {
	if in == nil {
		return []Record{}
	}
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Issue is a detected defect in one field of one record.
type Issue struct {
	Field      string    `json:"field"`
	Kind       IssueKind `json:"issue"`
	Value      any       `json:"value,omitempty"`
	Definition FieldDef  `json:"definition"`
}

// FieldDef describes one field of a category's field specification.
type FieldDef struct {
	Type        FieldType `json:"type"`
	Description string    `json:"description"`
	Options     []string  `json:"options,omitempty"`
	Required    bool      `json:"-"`
	// ZeroIsUnset marks numeric fields where 0 means the model found nothing.
	ZeroIsUnset bool `json:"-"`
}

// ChangeRecord lists the fields of one record that a repair actually fixed.
type ChangeRecord struct {
	Category    Category `json:"category"`
	ItemIndex   int      `json:"itemIndex"`
	ItemName    string   `json:"itemName"`
	FixedFields []string `json:"fixedFields"`
}
