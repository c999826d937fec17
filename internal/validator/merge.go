package validator

import (
	"math"

	"ledgerlens/internal/domain"
)

// Merge overlays a repaired object onto a copy of the original record and then
// applies the coercion table:
//   - number fields keep numbers, parse numeric strings, and otherwise fall back to the original
//   - integer fields do the same and round to the nearest integer
//   - a spec field that came back null keeps the original value
//
// Keys outside the spec are copied through unchanged.
func Merge(original domain.Record, recovered map[string]any, spec FieldSpec) domain.Record {
	merged := original.Clone()
	if merged == nil {
		merged = domain.Record{}
	}
	for k, v := range recovered {
		merged[k] = v
	}

	for _, f := range spec {
		rv, ok := recovered[f.Name]
		if !ok {
			continue
		}
		orig, hadOrig := original[f.Name]

		if rv == nil {
			restore(merged, f.Name, orig, hadOrig)
			continue
		}

		if !f.Def.Type.IsNumeric() {
			continue
		}
		n, ok := ParseNumber(rv)
		if !ok {
			restore(merged, f.Name, orig, hadOrig)
			continue
		}
		if f.Def.Type == domain.FieldTypeInteger {
			n = math.Round(n)
		}
		merged[f.Name] = n
	}
	return merged
}

func restore(r domain.Record, key string, orig any, hadOrig bool) {
	if hadOrig {
		r[key] = orig
		return
	}
	delete(r, key)
}
