package validator

import (
	"strings"

	"ledgerlens/internal/domain"
)

// Detect returns the issues of one record against a spec, in spec order.
// An empty result means the record needs no repair.
func Detect(r domain.Record, spec FieldSpec) []domain.Issue {
	var issues []domain.Issue
	for _, f := range spec {
		v, present := r[f.Name]
		if kind, bad := checkField(v, present, f.Def); bad {
			issue := domain.Issue{Field: f.Name, Kind: kind, Definition: f.Def}
			if kind == domain.IssueInvalid {
				issue.Value = v
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

func checkField(v any, present bool, def domain.FieldDef) (domain.IssueKind, bool) {
	switch def.Type {
	case domain.FieldTypeNumber, domain.FieldTypeInteger:
		if !present || v == nil {
			return domain.IssueMissing, def.Required
		}
		n, ok := ParseNumber(v)
		if !ok || (n == 0 && def.ZeroIsUnset) {
			return domain.IssueMissing, true
		}
		return "", false

	case domain.FieldTypeDate:
		if !present || isBlank(v) {
			if def.Required {
				return domain.IssueMissing, true
			}
			// an optional date is only checked when something other than blank was written
			if s, ok := v.(string); !ok || strings.TrimSpace(s) != PlaceholderNA {
				return "", false
			}
		}
		if !IsValidDate(v) {
			return domain.IssueInvalid, true
		}
		return "", false

	case domain.FieldTypeEnum:
		if !present || isBlank(v) {
			return domain.IssueMissing, def.Required
		}
		if !isOption(v, def.Options) {
			return domain.IssueInvalid, true
		}
		return "", false

	case domain.FieldTypeEmail:
		if !present || isBlank(v) {
			return domain.IssueMissing, def.Required
		}
		s, ok := v.(string)
		if !ok || !IsValidEmail(s) {
			return domain.IssueInvalid, true
		}
		return "", false

	default:
		if def.Required && (!present || isBlank(v)) {
			return domain.IssueMissing, true
		}
		return "", false
	}
}

// MissingFields lists the names of issues of kind missing.
func MissingFields(issues []domain.Issue) []string {
	var out []string
	for _, i := range issues {
		if i.Kind == domain.IssueMissing {
			out = append(out, i.Field)
		}
	}
	return out
}

// IsDefective reports whether a single field value counts as broken: absent,
// null, empty, the N/A placeholder, false, or failing its spec check.
// Fields outside the spec only get the generic checks.
func IsDefective(v any, present bool, def domain.FieldDef, inSpec bool) bool {
	if !present || isBlank(v) {
		return true
	}
	if b, ok := v.(bool); ok && !b {
		return true
	}
	if !inSpec {
		return false
	}
	_, bad := checkField(v, present, def)
	return bad
}

// RecordIssues groups the issues of one record for reporting.
type RecordIssues struct {
	Category domain.Category `json:"category"`
	Index    int             `json:"itemIndex"`
	ItemName string          `json:"itemName"`
	Issues   []domain.Issue  `json:"issues"`

	// MissingFields names the issues of kind missing, in spec order.
	MissingFields []string `json:"missingFields,omitempty"`
}

// DetectAll runs Detect over every record of a snapshot and returns the
// defective ones, ordered invoices, products, customers and by index.
func DetectAll(data domain.CategoryData) []RecordIssues {
	out := []RecordIssues{}
	for _, c := range domain.Categories {
		spec := SpecFor(c)
		for i, r := range data.Records(c) {
			issues := Detect(r, spec)
			if len(issues) == 0 {
				continue
			}
			out = append(out, RecordIssues{
				Category:      c,
				Index:         i,
				ItemName:      ItemName(c, r),
				Issues:        issues,
				MissingFields: MissingFields(issues),
			})
		}
	}
	return out
}
