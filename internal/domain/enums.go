package domain

import (
	"path/filepath"
	"strings"
)

// Category identifies one of the three record kinds.
type Category string

const (
	CategoryInvoice  Category = "invoice"
	CategoryProduct  Category = "product"
	CategoryCustomer Category = "customer"
)

// Categories lists the record kinds in reporting order.
var Categories = []Category{CategoryInvoice, CategoryProduct, CategoryCustomer}

// FieldType is the semantic type of a field in a field specification.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeDate    FieldType = "date"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeEmail   FieldType = "email"
	FieldTypePhone   FieldType = "phone"
)

// IsNumeric reports whether values of this type are numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeNumber || t == FieldTypeInteger
}

// IssueKind classifies a detected defect.
type IssueKind string

const (
	IssueMissing IssueKind = "missing"
	IssueInvalid IssueKind = "invalid"
)

// Invoice status values.
const (
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusUnpaid        = "Unpaid"
	InvoiceStatusOverdue       = "Overdue"
	InvoiceStatusPending       = "Pending"
	InvoiceStatusCancelled     = "Cancelled"
	InvoiceStatusPartiallyPaid = "Partially Paid"
)

// InvoiceStatuses is the allowed invoice status set.
var InvoiceStatuses = []string{
	InvoiceStatusPaid,
	InvoiceStatusUnpaid,
	InvoiceStatusOverdue,
	InvoiceStatusPending,
	InvoiceStatusCancelled,
	InvoiceStatusPartiallyPaid,
}

// FileType represents the accepted document kinds.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
)

const (
	MimePDF  = "application/pdf"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS  = "application/vnd.ms-excel"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  MimePDF,
	FileTypeJPG:  MimeJPEG,
	FileTypePNG:  MimePNG,
	FileTypeXLSX: MimeXLSX,
	FileTypeXLS:  MimeXLS,
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	MimePDF:  FileTypePDF,
	MimeJPEG: FileTypeJPG,
	MimePNG:  FileTypePNG,
	MimeXLSX: FileTypeXLSX,
	MimeXLS:  FileTypeXLS,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"xlsx": FileTypeXLSX,
	"xls":  FileTypeXLS,
}

// IsSpreadsheet reports whether a MIME type is one of the spreadsheet types.
func IsSpreadsheet(mimeType string) bool {
	return mimeType == MimeXLSX || mimeType == MimeXLS
}

// ResolveMimeType picks the accepted MIME type for an upload. The declared
// content type wins when it is accepted; otherwise the file extension decides.
func ResolveMimeType(contentType, filename string) (string, error) {
	ct := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := AllowedContentTypes[ct]; ok {
		return ct, nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ft, ok := AllowedExtensions[ext]; ok {
		return AllowedFileTypes[ft], nil
	}
	return "", ErrUnsupportedFileType
}
