package service

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names a step of the manuscript pipeline.
type Stage string

const (
	StageExtraction     Stage = "extraction"
	StageNormalization  Stage = "normalization"
	StageTranslation    Stage = "translation"
	StageInterpretation Stage = "interpretation"
	StageChat           Stage = "chat"
)

// Stage sentinels, matched with errors.Is against a *StageError.
var (
	ErrExtraction     = errors.New("text extraction failed")
	ErrNormalization  = errors.New("transliteration failed")
	ErrTranslation    = errors.New("translation failed")
	ErrInterpretation = errors.New("interpretation failed")
	ErrChat           = errors.New("chat failed")
)

var stageSentinels = map[Stage]error{
	StageExtraction:     ErrExtraction,
	StageNormalization:  ErrNormalization,
	StageTranslation:    ErrTranslation,
	StageInterpretation: ErrInterpretation,
	StageChat:           ErrChat,
}

// Explicit empty-result variants.
var (
	ErrNoText              = errors.New("no text found in image")
	ErrEmptyTranslation    = errors.New("model returned no translation")
	ErrEmptyInterpretation = errors.New("model returned no interpretation")
	ErrEmptyReply          = errors.New("model returned no reply")
)

// StageError reports which stage failed and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	sentinel, ok := stageSentinels[e.Stage]
	if !ok {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	if e.Err == nil {
		return capitalize(sentinel.Error())
	}
	return fmt.Sprintf("%s: %v", capitalize(sentinel.Error()), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the failed stage.
func (e *StageError) Is(target error) bool {
	return stageSentinels[e.Stage] == target
}

func stageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
