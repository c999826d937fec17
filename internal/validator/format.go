package validator

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderNA is the literal models emit when they could not find a value.
const PlaceholderNA = "N/A"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// numericCleaner strips currency symbols, thousands separators and whitespace.
var numericCleaner = strings.NewReplacer("$", "", "€", "", "£", "", "₹", "", ",", "", " ", "", "\t", "")

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// dateLayouts are the calendar forms accepted as a date. Numeric day and
// month layouts use the non-padded verbs, which also match zero-padded input.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"1-2-2006",
	"1/2/2006",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2006-1-2 15:04:05",
	"2006-01-02T15:04:05",
	"2-1-2006 15:04:05",
	time.RFC3339,
}

// parseDate tries each of dateLayouts in turn.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range dateLayouts {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %q", s)
}

// IsValidDate reports whether v is a string holding a recognizable calendar date.
func IsValidDate(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := parseDate(s)
	return err == nil
}

// ParseNumber converts a record value into a float. Strings are accepted after
// currency symbols, thousands separators and whitespace are removed.
// NaN and infinities are rejected.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case decimal.Decimal:
		f = t.InexactFloat64()
	case interface{ Float64() (float64, error) }:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		cleaned := numericCleaner.Replace(strings.TrimSpace(t))
		if cleaned == "" {
			return 0, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0, false
		}
		f = d.InexactFloat64()
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isBlank reports the values treated as "no value": nil, "", whitespace and N/A.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		return s == "" || s == PlaceholderNA
	default:
		return false
	}
}

func isOption(v any, options []string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
