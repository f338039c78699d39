package ocr

import "strings"

// tesseractLanguages maps ISO 639-1 hints to Tesseract traineddata names.
var tesseractLanguages = map[string]string{
	"sa": "san",
	"hi": "hin",
	"mr": "mar",
	"ne": "nep",
	"en": "eng",
}

// TesseractLanguage returns the Tesseract language for a hint. Unknown hints
// are passed through so callers can name traineddata directly.
func TesseractLanguage(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		hint = DefaultLanguageHint
	}
	if lang, ok := tesseractLanguages[hint]; ok {
		return lang
	}
	return hint
}
