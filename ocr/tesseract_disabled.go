//go:build !tesseract

package ocr

import (
	"context"
	"errors"
)

// ErrTesseractUnavailable is returned when the binary was built without the
// tesseract build tag.
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with -tags tesseract)")

type TesseractEngine struct{}

func NewTesseractEngine() (*TesseractEngine, error) {
	return nil, ErrTesseractUnavailable
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) ExtractText(ctx context.Context, image []byte, languageHint string) (string, error) {
	return "", ErrTesseractUnavailable
}
