package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
	"testing"

	"vedalipi/imageprep"
	"vedalipi/llm"
	"vedalipi/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
	hint  string
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) ExtractText(ctx context.Context, image []byte, languageHint string) (string, error) {
	f.calls++
	f.hint = languageHint
	return f.text, f.err
}

type reply struct {
	text string
	err  error
}

// fakeGenerator answers prompts by kind and records every prompt it saw.
type fakeGenerator struct {
	translate reply
	interpret reply
	chat      reply
	prompts   []string
}

func (f *fakeGenerator) SourceName() string { return "Fake" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	switch {
	case strings.HasPrefix(prompt, "Translate the following"):
		return f.translate.text, f.translate.err
	case strings.HasPrefix(prompt, "The following is a translated excerpt"):
		return f.interpret.text, f.interpret.err
	default:
		return f.chat.text, f.chat.err
	}
}

func newPipeline(ext *fakeExtractor, gen *fakeGenerator) *Pipeline {
	return NewPipeline(ext, NewTranslator(gen, "sa", "en"), NewInterpreter(gen), "sa", 2048)
}

func TestProcess_EndToEnd(t *testing.T) {
	ext := &fakeExtractor{text: "रामः वनं गच्छति"}
	gen := &fakeGenerator{
		translate: reply{text: " Rama goes to the forest.\n"},
		interpret: reply{text: "Rama departs for the forest. The line reflects the exile narrative of the Ramayana."},
	}

	res, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

	require.NoError(t, err)
	assert.Equal(t, "रामः वनं गच्छति", res.SourceText)
	assert.Equal(t, "rāmaḥ vanaṃ gacchati", res.RomanizedText)
	assert.Equal(t, "Rama goes to the forest.", res.TranslatedText)
	assert.NotEmpty(t, res.Interpretation)
	assert.False(t, res.InterpretationMissing)
	assert.Equal(t, "sa", ext.hint)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "Text: रामः वनं गच्छति\n", "translator receives the extracted script, not the romanization")
	assert.Contains(t, gen.prompts[0], "Translate the following Sanskrit text to English:")
	assert.Contains(t, gen.prompts[1], "Text: Rama goes to the forest.\n")
}

func TestProcess_NoTextStopsPipeline(t *testing.T) {
	ext := &fakeExtractor{text: ""}
	gen := &fakeGenerator{}

	_, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtraction))
	assert.True(t, errors.Is(err, ErrNoText))
	assert.Contains(t, err.Error(), "Text extraction failed")
	assert.Empty(t, gen.prompts, "no translation or interpretation call is attempted")
}

func TestProcess_OversizedImageIsNotDecoded(t *testing.T) {
	// PNG signature plus an IHDR declaring 30000x30000 RGB pixels.
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 30000)
	binary.BigEndian.PutUint32(ihdr[4:8], 30000)
	ihdr[8], ihdr[9] = 8, 2
	chunk := append([]byte("IHDR"), ihdr...)
	var page bytes.Buffer
	page.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&page, binary.BigEndian, uint32(len(ihdr)))
	page.Write(chunk)
	_ = binary.Write(&page, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	ext := &fakeExtractor{text: "रामः"}
	gen := &fakeGenerator{}

	_, err := newPipeline(ext, gen).Process(context.Background(), page.Bytes())

	assert.True(t, errors.Is(err, ErrExtraction))
	assert.True(t, errors.Is(err, imageprep.ErrTooManyPixels))
	assert.Zero(t, ext.calls)
	assert.Empty(t, gen.prompts)
}

func TestProcess_ExtractorError(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("vision unreachable")}
	gen := &fakeGenerator{}

	_, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageExtraction, se.Stage)
	assert.Contains(t, err.Error(), "vision unreachable")
	assert.Empty(t, gen.prompts)
}

func TestProcess_TranslationFailures(t *testing.T) {
	testCases := []struct {
		name  string
		reply reply
		cause error
	}{
		{"endpoint error", reply{err: errors.New("quota exceeded")}, nil},
		{"no candidates", reply{err: llm.ErrNoContent}, ErrEmptyTranslation},
		{"blank text", reply{text: "   "}, ErrEmptyTranslation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ext := &fakeExtractor{text: "रामः"}
			gen := &fakeGenerator{translate: tc.reply, interpret: reply{text: "unused"}}

			_, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

			assert.True(t, errors.Is(err, ErrTranslation))
			assert.False(t, errors.Is(err, ErrExtraction))
			if tc.cause != nil {
				assert.True(t, errors.Is(err, tc.cause))
			}
			assert.Len(t, gen.prompts, 1, "interpreter is not called after a failed translation")
		})
	}
}

func TestProcess_EmptyInterpretationFallsBack(t *testing.T) {
	ext := &fakeExtractor{text: "रामः"}
	gen := &fakeGenerator{translate: reply{text: "Rama."}, interpret: reply{err: llm.ErrNoContent}}

	res, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

	require.NoError(t, err)
	assert.Equal(t, InterpretationFallback, res.Interpretation)
	assert.True(t, res.InterpretationMissing)
}

func TestProcess_InterpretationErrorPropagates(t *testing.T) {
	ext := &fakeExtractor{text: "रामः"}
	gen := &fakeGenerator{translate: reply{text: "Rama."}, interpret: reply{err: errors.New("503")}}

	_, err := newPipeline(ext, gen).Process(context.Background(), []byte("image"))

	assert.True(t, errors.Is(err, ErrInterpretation))
}

func TestResponder_PromptContainsContext(t *testing.T) {
	gen := &fakeGenerator{chat: reply{text: "Rama is the hero of the Ramayana."}}
	sc := session.Context{
		SourceText:     "रामः वनं गच्छति",
		TranslatedText: "Rama goes to the forest.",
		Interpretation: "A line about exile.",
	}

	out := NewResponder(gen).Reply(context.Background(), sc, "Who is Rama?")

	assert.Equal(t, "Rama is the hero of the Ramayana.", out)
	require.Len(t, gen.prompts, 1)
	for _, want := range []string{sc.SourceText, sc.TranslatedText, sc.Interpretation, "User Query: Who is Rama?"} {
		assert.Contains(t, gen.prompts[0], want)
	}
}

func TestResponder_Degrades(t *testing.T) {
	testCases := []struct {
		name   string
		reply  reply
		expect func(t *testing.T, out string)
	}{
		{
			name:  "empty response",
			reply: reply{err: llm.ErrNoContent},
			expect: func(t *testing.T, out string) {
				assert.Equal(t, ChatFallback, out)
			},
		},
		{
			name:  "endpoint failure",
			reply: reply{err: errors.New("connection refused")},
			expect: func(t *testing.T, out string) {
				assert.Equal(t, "Error: connection refused", out)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{chat: tc.reply}
			tc.expect(t, NewResponder(gen).Reply(context.Background(), session.Context{}, "Who is Rama?"))
		})
	}
}

func TestResponder_AskSurfacesStageError(t *testing.T) {
	gen := &fakeGenerator{chat: reply{err: errors.New("boom")}}

	_, err := NewResponder(gen).Ask(context.Background(), session.Context{}, "q")

	assert.True(t, errors.Is(err, ErrChat))
}

func TestStageError_Message(t *testing.T) {
	err := &StageError{Stage: StageTranslation, Err: ErrEmptyTranslation}
	assert.Equal(t, "Translation failed: model returned no translation", err.Error())
}
