// Package extraction turns one uploaded document into a CategoryData snapshot
// with a single model call.
package extraction

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/jsonrecover"
	"ledgerlens/internal/port"
)

// Input is one document to extract from.
type Input struct {
	FileBytes []byte
	MimeType  string
	// SpreadsheetPreview is optional pre-rendered sheet text; it wins over local rendering.
	SpreadsheetPreview string
}

// Service defines the extraction operation.
type Service interface {
	Extract(ctx context.Context, input Input) (domain.CategoryData, error)
}

// Options tunes document preparation.
type Options struct {
	MaxImageDimension int
	Recoverer         jsonrecover.Recoverer
}

type service struct {
	client  port.ModelClient
	recover jsonrecover.Recoverer
	maxDim  int
}

// NewService creates a new extraction Service.
func NewService(client port.ModelClient, opts Options) Service {
	rec := opts.Recoverer
	if rec == nil {
		rec = jsonrecover.Recover
	}
	return &service{
		client:  client,
		recover: rec,
		maxDim:  opts.MaxImageDimension,
	}
}

func (s *service) Extract(ctx context.Context, input Input) (domain.CategoryData, error) {
	if _, ok := domain.AllowedContentTypes[input.MimeType]; !ok {
		return domain.EmptyCategoryData(), domain.ErrUnsupportedFileType
	}

	genInput, err := s.buildInput(input)
	if err != nil {
		return domain.EmptyCategoryData(), err
	}

	out, err := s.client.Generate(ctx, genInput)
	if err != nil {
		log.Printf("extractionService.Extract: model call failed: %v", err)
		return domain.EmptyCategoryData(), fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	res := s.recover(out.Text)
	if !res.OK() {
		log.WithFields(log.Fields{
			"model":   out.Model,
			"error":   res.Err,
			"preview": jsonrecover.Preview(res.Raw, 500),
		}).Warn("extractionService.Extract: no JSON object in model response")
		return domain.EmptyCategoryData(), nil
	}

	data := normalize(res.Object)
	log.WithFields(log.Fields{
		"model":     out.Model,
		"invoices":  len(data.Invoices),
		"products":  len(data.Products),
		"customers": len(data.Customers),
	}).Info("extractionService.Extract: extracted records")
	return data, nil
}

func (s *service) buildInput(input Input) (port.GenerateInput, error) {
	if domain.IsSpreadsheet(input.MimeType) {
		text, headers := input.SpreadsheetPreview, HeadersFromPreview(input.SpreadsheetPreview)
		if text == "" {
			wb, err := RenderSpreadsheet(input.FileBytes)
			if err != nil {
				return port.GenerateInput{}, err
			}
			text, headers = wb.Text, wb.Headers
		}
		prompt := AppendSpreadsheetText(BuildExtractionPrompt(true, headers), text)
		return port.GenerateInput{Prompt: prompt, JSONMode: true}, nil
	}

	attachment := input.FileBytes
	if scaled, err := DownscaleImage(input.FileBytes, input.MimeType, s.maxDim); err != nil {
		log.Printf("extractionService.Extract: image downscale skipped: %v", err)
	} else {
		attachment = scaled
	}

	return port.GenerateInput{
		Prompt:     BuildExtractionPrompt(false, nil),
		Attachment: attachment,
		MimeType:   input.MimeType,
		JSONMode:   true,
	}, nil
}
