package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vedalipi/llm"
	"vedalipi/metrics"
	"vedalipi/session"

	"github.com/apex/log"
)

// ChatFallback is the reply when the model answered without text.
const ChatFallback = "Sorry, I couldn't generate a response."

// Responder answers questions about the document held in a session context.
type Responder struct {
	gen llm.Generator
}

func NewResponder(gen llm.Generator) *Responder {
	return &Responder{gen: gen}
}

// ChatPrompt frames the session context and the user's question.
func ChatPrompt(sc session.Context, question string) string {
	return fmt.Sprintf(
		"The following is an excerpt from an ancient Sanskrit manuscript:\n"+
			"Sanskrit Text: %s\n"+
			"English Translation: %s\n"+
			"Interpretation: %s\n\n"+
			"User Query: %s",
		sc.SourceText, sc.TranslatedText, sc.Interpretation, question)
}

// Ask returns the model's reply. ErrEmptyReply marks a response without
// text; any other error is a *StageError for StageChat.
func (r *Responder) Ask(ctx context.Context, sc session.Context, question string) (string, error) {
	out, err := r.gen.Generate(ctx, ChatPrompt(sc, question))
	if errors.Is(err, llm.ErrNoContent) {
		return "", ErrEmptyReply
	}
	if err != nil {
		return "", stageError(StageChat, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}

// Reply is Ask for interactive use: it never fails. An empty response
// becomes ChatFallback and an error becomes "Error: <details>".
func (r *Responder) Reply(ctx context.Context, sc session.Context, question string) string {
	out, err := r.Ask(ctx, sc, question)
	switch {
	case err == nil:
		metrics.ChatRepliesTotal.WithLabelValues("ok").Inc()
		return out
	case errors.Is(err, ErrEmptyReply):
		metrics.ChatRepliesTotal.WithLabelValues("empty").Inc()
		log.Warn("chat.reply.empty")
		return ChatFallback
	default:
		metrics.ChatRepliesTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("chat.reply.error")
		var se *StageError
		if errors.As(err, &se) {
			err = se.Err
		}
		return "Error: " + err.Error()
	}
}
