package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vedalipi/llm"
)

// InterpretationFallback is shown to clients when the model produced no
// interpretation.
const InterpretationFallback = "Interpretation failed."

// Interpreter asks the model for a short summary and contextual analysis of
// translated text.
type Interpreter struct {
	gen llm.Generator
}

func NewInterpreter(gen llm.Generator) *Interpreter {
	return &Interpreter{gen: gen}
}

// InterpretationPrompt builds the instruction sent to the model.
func InterpretationPrompt(english string) string {
	return "The following is a translated excerpt from an ancient Sanskrit manuscript:\n" +
		"Text: " + english + "\n\n" +
		"Provide a concise summary (2-3 sentences) of the text and a brief contextual analysis " +
		"(1-2 sentences) identifying if it contains spiritual, philosophical, or historical insights typical of Vedic literature."
}

// Interpret returns the trimmed interpretation, or ErrEmptyInterpretation
// when the model answered without text.
func (i *Interpreter) Interpret(ctx context.Context, english string) (string, error) {
	out, err := i.gen.Generate(ctx, InterpretationPrompt(english))
	if errors.Is(err, llm.ErrNoContent) {
		return "", ErrEmptyInterpretation
	}
	if err != nil {
		return "", fmt.Errorf("%s interpret request: %w", i.gen.SourceName(), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyInterpretation
	}
	return out, nil
}
