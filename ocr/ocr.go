// Package ocr extracts text from page images.
package ocr

import (
	"context"
	"fmt"
)

// DefaultLanguageHint is the language code used when the caller passes none.
const DefaultLanguageHint = "sa"

// Extractor recognizes text in an image. An image without detectable text
// yields an empty string and a nil error.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte, languageHint string) (string, error)
	Name() string
}

// APIError is a failure reported by the OCR endpoint.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Vision API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}
