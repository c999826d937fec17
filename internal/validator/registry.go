package validator

import "ledgerlens/internal/domain"

// Registry maps each category to its field specification.
type Registry struct {
	specs map[domain.Category]FieldSpec
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[domain.Category]FieldSpec)}
}

// DefaultRegistry returns a registry holding the built-in specs for all three categories.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.CategoryInvoice, invoiceSpec)
	r.Register(domain.CategoryProduct, productSpec)
	r.Register(domain.CategoryCustomer, customerSpec)
	return r
}

// Register sets the spec for a category.
func (r *Registry) Register(c domain.Category, spec FieldSpec) {
	r.specs[c] = spec
}

// Get returns the spec for a category, or nil if not found.
func (r *Registry) Get(c domain.Category) FieldSpec {
	return r.specs[c]
}

var defaultRegistry = DefaultRegistry()

// SpecFor returns the built-in spec for a category.
func SpecFor(c domain.Category) FieldSpec {
	return defaultRegistry.Get(c)
}
