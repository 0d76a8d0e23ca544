// Package ocr defines the contract for extracting card fields from a
// scanned document image. Extraction is best effort and advisory: the
// application never persists an extracted value the user has not
// confirmed.
package ocr

import "context"

// Extraction is the set of fields an extractor may recognize. Empty
// fields mean "not found", never "blank on the document".
type Extraction struct {
	Title          string
	Issuer         string
	ExpiryDate     string // YYYY-MM-DD when recognized
	IssueDate      string // YYYY-MM-DD when recognized
	HolderName     string
	DocumentNumber string
}

// Extractor recognizes card fields in an image. Implementations live
// outside this module (platform OCR services, cloud APIs); Null is the
// in-tree fallback.
type Extractor interface {
	Extract(ctx context.Context, image []byte, contentType string) (Extraction, error)
}

// Null is the extractor used when no OCR backend is configured. It
// recognizes nothing and never fails.
type Null struct{}

func (Null) Extract(ctx context.Context, image []byte, contentType string) (Extraction, error) {
	return Extraction{}, nil
}
