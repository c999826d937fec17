package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ledgerlens/internal/cache"
	"ledgerlens/internal/config"
	"ledgerlens/internal/domain"
	"ledgerlens/internal/extraction"
	"ledgerlens/internal/port"
	"ledgerlens/internal/reconcile"
	"ledgerlens/internal/repair"
	"ledgerlens/internal/validator"
)

const defaultRepairConcurrency = 4

// ProcessInput is one uploaded document.
type ProcessInput struct {
	FileBytes          []byte
	MimeType           string
	FileName           string
	SpreadsheetPreview string
}

// ExtractResult is the outcome of the extraction stage.
type ExtractResult struct {
	Data       domain.CategoryData `json:"data"`
	ArchiveKey string              `json:"archive_key,omitempty"`
	Cached     bool                `json:"cached"`
}

// ValidationResult pairs a snapshot with its repaired copy and the change report.
type ValidationResult struct {
	Before        domain.CategoryData   `json:"before"`
	After         domain.CategoryData   `json:"after"`
	Changes       []domain.ChangeRecord `json:"changes"`
	IssueCount    int                   `json:"issue_count"`
	RepairedCount int                   `json:"repaired_count"`
}

// ProcessResult is the outcome of extract-then-validate on one document.
type ProcessResult struct {
	Extracted     domain.CategoryData   `json:"extracted"`
	Repaired      domain.CategoryData   `json:"repaired"`
	Changes       []domain.ChangeRecord `json:"changes"`
	IssueCount    int                   `json:"issue_count"`
	RepairedCount int                   `json:"repaired_count"`
	ArchiveKey    string                `json:"archive_key,omitempty"`
}

// DetectResult lists the defective records of a snapshot.
type DetectResult struct {
	Records    []validator.RecordIssues `json:"records"`
	IssueCount int                      `json:"issue_count"`
}

// PipelineService defines the document pipeline contract.
type PipelineService interface {
	Extract(ctx context.Context, input ProcessInput) (*ExtractResult, error)
	Validate(ctx context.Context, data domain.CategoryData) (*ValidationResult, error)
	Process(ctx context.Context, input ProcessInput) (*ProcessResult, error)
	Detect(data domain.CategoryData) *DetectResult
}

type pipelineService struct {
	extractor extraction.Service
	repairer  repair.Service
	cache     port.ExtractionCache
	storage   port.ObjectStorage
	cfg       *config.PipelineConfig
	bucket    string
}

// NewPipelineService creates a new PipelineService implementation.
// cache and storage may be nil; a nil storage disables the upload archive.
func NewPipelineService(
	extractor extraction.Service,
	repairer repair.Service,
	cache port.ExtractionCache,
	storage port.ObjectStorage,
	cfg *config.PipelineConfig,
	storageCfg *config.StorageConfig,
) PipelineService {
	s := &pipelineService{
		extractor: extractor,
		repairer:  repairer,
		cache:     cache,
		storage:   storage,
		cfg:       cfg,
	}
	if storageCfg != nil {
		s.bucket = storageCfg.Bucket
	}
	return s
}

func (s *pipelineService) Extract(ctx context.Context, input ProcessInput) (*ExtractResult, error) {
	if len(input.FileBytes) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if _, ok := domain.AllowedContentTypes[input.MimeType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	result := &ExtractResult{ArchiveKey: s.archive(ctx, input)}

	key := cache.Key(input.FileBytes, input.MimeType, input.SpreadsheetPreview)
	if s.cache != nil {
		data, found, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("pipelineService.Extract: cache lookup failed: %v", err)
		} else if found {
			log.Printf("pipelineService.Extract: cache hit for %s", input.FileName)
			result.Data = data.Normalize()
			result.Cached = true
			return result, nil
		}
	}

	data, err := s.extractor.Extract(ctx, extraction.Input{
		FileBytes:          input.FileBytes,
		MimeType:           input.MimeType,
		SpreadsheetPreview: input.SpreadsheetPreview,
	})
	if err != nil {
		return nil, err
	}
	result.Data = data

	if s.cache != nil && !data.IsEmpty() {
		if err := s.cache.Set(ctx, key, data); err != nil {
			log.Printf("pipelineService.Extract: cache store failed: %v", err)
		}
	}
	return result, nil
}

// archive uploads the source document and returns its object key, or "" when
// archiving is disabled or failed.
func (s *pipelineService) archive(ctx context.Context, input ProcessInput) string {
	if s.storage == nil {
		return ""
	}
	key := s.archiveKey(input.MimeType)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: input.MimeType,
		Size:        int64(len(input.FileBytes)),
	})
	if err != nil {
		log.WithFields(log.Fields{
			"file":  input.FileName,
			"key":   key,
			"error": err,
		}).Warn("pipelineService.Extract: archive upload failed")
		return ""
	}
	return key
}

func (s *pipelineService) archiveKey(mimeType string) string {
	ext := string(domain.AllowedContentTypes[mimeType])
	return fmt.Sprintf("uploads/%s/%s.%s", time.Now().UTC().Format("2006/01/02"), uuid.New(), ext)
}

func (s *pipelineService) Validate(ctx context.Context, data domain.CategoryData) (*ValidationResult, error) {
	before := data.Clone()
	after := data.Clone()

	found := validator.DetectAll(before)
	issueCount := 0
	for _, ri := range found {
		issueCount += len(ri.Issues)
	}

	if len(found) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.repairConcurrency())
		for _, ri := range found {
			records := after.Records(ri.Category)
			g.Go(func() error {
				// each goroutine owns exactly one slot
				records[ri.Index] = s.repairer.Repair(gctx, ri.Category, records[ri.Index], ri.Issues)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	changes := reconcile.Reconcile(before, after)
	log.WithFields(log.Fields{
		"defective": len(found),
		"issues":    issueCount,
		"repaired":  len(changes),
	}).Info("pipelineService.Validate: validation complete")

	return &ValidationResult{
		Before:        before,
		After:         after,
		Changes:       changes,
		IssueCount:    issueCount,
		RepairedCount: len(changes),
	}, nil
}

func (s *pipelineService) repairConcurrency() int {
	if s.cfg == nil || s.cfg.RepairConcurrency <= 0 {
		return defaultRepairConcurrency
	}
	return s.cfg.RepairConcurrency
}

func (s *pipelineService) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	if s.cfg != nil && s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	extracted, err := s.Extract(ctx, input)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPipelineTimeout, err)
		}
		return nil, err
	}
	if extracted.Data.IsEmpty() {
		return nil, domain.ErrNoData
	}

	validated, err := s.Validate(ctx, extracted.Data)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		Extracted:     validated.Before,
		Repaired:      validated.After,
		Changes:       validated.Changes,
		IssueCount:    validated.IssueCount,
		RepairedCount: validated.RepairedCount,
		ArchiveKey:    extracted.ArchiveKey,
	}, nil
}

func (s *pipelineService) Detect(data domain.CategoryData) *DetectResult {
	found := validator.DetectAll(data)
	count := 0
	for _, ri := range found {
		count += len(ri.Issues)
	}
	return &DetectResult{Records: found, IssueCount: count}
}
