// Command extract runs the document pipeline on a local file and prints the
// JSON result.
//
//	extract -file invoice.pdf [-mime application/pdf] [-validate] [-preview sheet.txt]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/app"
	"ledgerlens/internal/config"
	"ledgerlens/internal/domain"
	"ledgerlens/internal/logger"
	"ledgerlens/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	filePath := flag.String("file", "", "path to the document to extract (required)")
	mimeType := flag.String("mime", "", "MIME type override; defaults to the file extension")
	validate := flag.Bool("validate", false, "repair defective records and report the changes")
	previewPath := flag.String("preview", "", "optional pre-rendered spreadsheet text")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.SetupWithOutput(&cfg.Log, os.Stderr)

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *filePath, err)
	}
	resolved, err := domain.ResolveMimeType(*mimeType, *filePath)
	if err != nil {
		return fmt.Errorf("%s: %w", *filePath, err)
	}

	input := service.ProcessInput{FileBytes: data, MimeType: resolved, FileName: *filePath}
	if *previewPath != "" {
		preview, err := os.ReadFile(*previewPath)
		if err != nil {
			return fmt.Errorf("reading preview: %w", err)
		}
		input.SpreadsheetPreview = string(preview)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var result any
	if *validate {
		result, err = a.Pipeline.Process(ctx, input)
	} else {
		var extracted *service.ExtractResult
		extracted, err = a.Pipeline.Extract(ctx, input)
		if extracted != nil {
			result = extracted.Data
		}
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
