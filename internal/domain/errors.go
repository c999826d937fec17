package domain

import "errors"

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile               = errors.New("file is empty")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrExtractionFailed        = errors.New("document processing failed")
	ErrNoData                  = errors.New("no records could be extracted from the document")
	ErrSpreadsheetUnreadable   = errors.New("spreadsheet could not be read")
	ErrInvalidCategoryData     = errors.New("category data does not match expected format")
	ErrPipelineTimeout         = errors.New("document processing timed out")
	ErrModelClientUnconfigured = errors.New("no model provider configured")
)
