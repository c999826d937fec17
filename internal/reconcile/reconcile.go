// Package reconcile reports which fields a repair pass actually fixed.
package reconcile

import (
	"bytes"
	"encoding/json"
	"sort"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/validator"
)

// Reconcile pairs records by index within each category and lists, per
// record, the fields whose value changed from a defective one. Records past
// the shorter side of a pair are ignored.
func Reconcile(before, after domain.CategoryData) []domain.ChangeRecord {
	changes := []domain.ChangeRecord{}
	for _, c := range domain.Categories {
		spec := validator.SpecFor(c)
		b, a := before.Records(c), after.Records(c)
		n := min(len(b), len(a))
		for i := 0; i < n; i++ {
			fixed := fixedFields(b[i], a[i], spec)
			if len(fixed) == 0 {
				continue
			}
			changes = append(changes, domain.ChangeRecord{
				Category:    c,
				ItemIndex:   i,
				ItemName:    validator.ItemName(c, a[i]),
				FixedFields: fixed,
			})
		}
	}
	return changes
}

// fixedFields lists the repaired fields of one record, field-spec fields in
// spec order first and any other keys after them in sorted order.
func fixedFields(before, after domain.Record, spec validator.FieldSpec) []string {
	var fixed []string
	for _, f := range spec {
		if _, ok := after[f.Name]; ok && wasFixed(before, after, f.Name, f.Def, true) {
			fixed = append(fixed, f.Name)
		}
	}

	extra := make([]string, 0, len(after))
	for k := range after {
		if _, inSpec := spec.Lookup(k); !inSpec {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if wasFixed(before, after, k, domain.FieldDef{}, false) {
			fixed = append(fixed, k)
		}
	}
	return fixed
}

func wasFixed(before, after domain.Record, key string, def domain.FieldDef, inSpec bool) bool {
	old, present := before[key]
	if present && sameJSON(old, after[key]) {
		return false
	}
	return validator.IsDefective(old, present, def, inSpec)
}

func sameJSON(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
