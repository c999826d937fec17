// Package repair asks a model to fix the defective fields of a single record.
package repair

import (
	"context"

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/jsonrecover"
	"ledgerlens/internal/port"
	"ledgerlens/internal/validator"
)

// Service defines the per-record repair operation. Repair never fails: any
// problem talking to the model yields the original record.
type Service interface {
	Repair(ctx context.Context, category domain.Category, record domain.Record, issues []domain.Issue) domain.Record
}

type service struct {
	client   port.ModelClient
	registry *validator.Registry
	recover  jsonrecover.Recoverer
}

// NewService creates a new repair Service. A nil registry uses the default
// field specifications and a nil recoverer uses jsonrecover.Recover.
func NewService(client port.ModelClient, registry *validator.Registry, recoverer jsonrecover.Recoverer) Service {
	if registry == nil {
		registry = validator.DefaultRegistry()
	}
	if recoverer == nil {
		recoverer = jsonrecover.Recover
	}
	return &service{
		client:   client,
		registry: registry,
		recover:  recoverer,
	}
}

func (s *service) Repair(ctx context.Context, category domain.Category, record domain.Record, issues []domain.Issue) domain.Record {
	if len(issues) == 0 {
		return record
	}

	spec := s.registry.Get(category)
	prompt, err := BuildRepairPrompt(category, record, spec, issues)
	if err != nil {
		log.Printf("repairService.Repair: building prompt for %s: %v", category, err)
		return record
	}

	out, err := s.client.Generate(ctx, port.GenerateInput{Prompt: prompt, JSONMode: true})
	if err != nil {
		log.WithFields(log.Fields{
			"category": category,
			"item":     validator.ItemName(category, record),
			"error":    err,
		}).Warn("repairService.Repair: model call failed, keeping original")
		return record
	}

	res := s.recover(out.Text)
	if !res.OK() {
		log.WithFields(log.Fields{
			"category": category,
			"model":    out.Model,
			"error":    res.Err,
			"preview":  jsonrecover.Preview(res.Raw, 300),
		}).Warn("repairService.Repair: unusable model response, keeping original")
		return record
	}

	return validator.Merge(record, res.Object, spec)
}
