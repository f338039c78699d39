package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vedalipi/config"
	"vedalipi/llm"
)

// Translator asks the model for a plain translation of source text.
type Translator struct {
	gen    llm.Generator
	source string
	target string
}

// NewTranslator creates a translator between two language codes, e.g. "sa"
// and "en".
func NewTranslator(gen llm.Generator, sourceLanguage, targetLanguage string) *Translator {
	if sourceLanguage == "" {
		sourceLanguage = "sa"
	}
	if targetLanguage == "" {
		targetLanguage = "en"
	}
	return &Translator{gen: gen, source: sourceLanguage, target: targetLanguage}
}

// TranslationPrompt builds the instruction sent to the model.
func (t *Translator) TranslationPrompt(text string) string {
	source := config.LanguageName(t.source)
	target := config.LanguageName(t.target)
	return fmt.Sprintf("Translate the following %s text to %s:\nText: %s\nProvide only the translated text in %s.",
		source, target, text, target)
}

// Translate returns the trimmed translation. A response without text is
// ErrEmptyTranslation; transport and API failures are returned wrapped.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	out, err := t.gen.Generate(ctx, t.TranslationPrompt(text))
	if errors.Is(err, llm.ErrNoContent) {
		return "", ErrEmptyTranslation
	}
	if err != nil {
		return "", fmt.Errorf("%s translate request: %w", t.gen.SourceName(), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
