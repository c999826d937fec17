package extraction

import (
	"errors"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/domain"
)

var categoryKeys = []string{"invoices", "products", "customers"}

// payloadSchema is the shape of a recovered extraction payload. Each
// category is a list of non-empty objects; other keys are ignored.
const payloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "invoices":  {"$ref": "#/definitions/records"},
    "products":  {"$ref": "#/definitions/records"},
    "customers": {"$ref": "#/definitions/records"}
  },
  "definitions": {
    "records": {
      "type": "array",
      "items": {"type": "object", "minProperties": 1}
    }
  }
}`

var compiledPayloadSchema = mustCompileSchema("payload.json", payloadSchema)

func mustCompileSchema(url, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(url)
}

// rejection records what the schema refused under one category key.
type rejection struct {
	whole bool
	items map[int]bool
}

type violations map[string]*rejection

func (v violations) at(key string) *rejection {
	r := v[key]
	if r == nil {
		r = &rejection{items: map[int]bool{}}
		v[key] = r
	}
	return r
}

// normalize validates the recovered object against payloadSchema and builds a
// snapshot from what passed. A category whose value is not an array is
// treated as absent; array elements the schema rejects are dropped.
func normalize(obj map[string]any) domain.CategoryData {
	bad := schemaViolations(obj)
	return domain.CategoryData{
		Invoices:  categoryRecords(obj, "invoices", bad),
		Products:  categoryRecords(obj, "products", bad),
		Customers: categoryRecords(obj, "customers", bad),
	}
}

func schemaViolations(obj map[string]any) violations {
	out := violations{}
	err := compiledPayloadSchema.Validate(obj)
	if err == nil {
		return out
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		log.WithField("error", err.Error()).Warn("extraction.normalize: payload could not be validated")
		for _, k := range categoryKeys {
			out.at(k).whole = true
		}
		return out
	}

	collectViolations(verr, out)
	for key, r := range out {
		log.WithFields(log.Fields{
			"key":     key,
			"whole":   r.whole,
			"dropped": len(r.items),
		}).Warn("extraction.normalize: schema violation")
	}
	return out
}

// collectViolations walks the leaf errors and maps each instance location
// ("/products" or "/products/3") onto the category it belongs to.
func collectViolations(e *jsonschema.ValidationError, out violations) {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			collectViolations(c, out)
		}
		return
	}

	parts := strings.Split(strings.TrimPrefix(e.InstanceLocation, "/"), "/")
	if parts[0] == "" {
		return
	}
	r := out.at(parts[0])
	if len(parts) == 1 {
		r.whole = true
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		r.whole = true
		return
	}
	r.items[idx] = true
}

func categoryRecords(obj map[string]any, key string, bad violations) []domain.Record {
	out := []domain.Record{}
	r := bad[key]
	if r != nil && r.whole {
		return out
	}

	items, _ := obj[key].([]any)
	for i, item := range items {
		if r != nil && r.items[i] {
			continue
		}
		if m, ok := item.(map[string]any); ok {
			out = append(out, domain.Record(m))
		}
	}
	return out
}
