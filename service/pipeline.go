package service

import (
	"context"
	"errors"
	"time"

	"vedalipi/imageprep"
	"vedalipi/metrics"
	"vedalipi/ocr"
	"vedalipi/session"
	"vedalipi/transliterate"

	"github.com/apex/log"
)

// Result is the output of one upload-processing cycle.
type Result struct {
	SourceText            string
	RomanizedText         string
	TranslatedText        string
	Interpretation        string
	InterpretationMissing bool
}

// SessionContext is the part of the result that grounds later chat turns.
func (r Result) SessionContext() session.Context {
	return session.Context{
		SourceText:     r.SourceText,
		TranslatedText: r.TranslatedText,
		Interpretation: r.Interpretation,
	}
}

// Pipeline runs extraction, romanization, translation and interpretation in
// strict sequence. A failed stage aborts the run.
type Pipeline struct {
	extractor         ocr.Extractor
	translator        *Translator
	interpreter       *Interpreter
	languageHint      string
	maxImageDimension int
}

func NewPipeline(extractor ocr.Extractor, translator *Translator, interpreter *Interpreter, languageHint string, maxImageDimension int) *Pipeline {
	return &Pipeline{
		extractor:         extractor,
		translator:        translator,
		interpreter:       interpreter,
		languageHint:      languageHint,
		maxImageDimension: maxImageDimension,
	}
}

// Process turns page image bytes into a Result. Errors are *StageError.
func (p *Pipeline) Process(ctx context.Context, image []byte) (Result, error) {
	var res Result

	err := p.stage(StageExtraction, func() error {
		prepared, err := imageprep.Prepare(image, p.maxImageDimension)
		if err != nil {
			return err
		}
		text, err := p.extractor.ExtractText(ctx, prepared, p.languageHint)
		if err != nil {
			return err
		}
		if text == "" {
			return ErrNoText
		}
		res.SourceText = text
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(StageNormalization, func() error {
		roman, err := transliterate.Normalize(res.SourceText)
		res.RomanizedText = roman
		return err
	})
	if err != nil {
		return Result{}, err
	}

	// The model translates the extracted script; romanization is for display.
	err = p.stage(StageTranslation, func() error {
		english, err := p.translator.Translate(ctx, res.SourceText)
		res.TranslatedText = english
		return err
	})
	if err != nil {
		return Result{}, err
	}

	err = p.stage(StageInterpretation, func() error {
		interpretation, err := p.interpreter.Interpret(ctx, res.TranslatedText)
		if errors.Is(err, ErrEmptyInterpretation) {
			res.Interpretation = InterpretationFallback
			res.InterpretationMissing = true
			return nil
		}
		res.Interpretation = interpretation
		return err
	})
	if err != nil {
		return Result{}, err
	}

	metrics.ProcessedTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (p *Pipeline) stage(stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	fields := log.Fields{
		"stage":    string(stage),
		"duration": elapsed.String(),
	}

	if err != nil {
		metrics.StageDurationSeconds.WithLabelValues(string(stage), "error").Observe(elapsed.Seconds())
		metrics.ProcessedTotal.WithLabelValues(string(stage)).Inc()
		log.WithFields(fields).WithError(err).Error("pipeline.stage.failed")
		return stageError(stage, err)
	}

	metrics.StageDurationSeconds.WithLabelValues(string(stage), "ok").Observe(elapsed.Seconds())
	log.WithFields(fields).Info("pipeline.stage.ok")
	return nil
}
