package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Client is a deterministic, no-network generator intended for local runs and
// end-to-end tests without a Gemini key. It recognises the translation,
// interpretation and chat prompts and answers each with stable text.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) SourceName() string { return "Stub" }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Make output deterministic per-input so runs are reproducible.
	sum := sha256.Sum256([]byte(prompt))
	short := hex.EncodeToString(sum[:4])

	switch {
	case strings.HasPrefix(prompt, "Translate the following"):
		return fmt.Sprintf("[stub translation %s] %s", short, truncate(fieldAfter(prompt, "Text: "), 120)), nil
	case strings.HasPrefix(prompt, "The following is a translated excerpt"):
		return fmt.Sprintf("Stub summary %s of the excerpt. It has not been analysed by a real model.", short), nil
	case strings.Contains(prompt, "User Query: "):
		return fmt.Sprintf("Stub answer %s to: %s", short, truncate(fieldAfter(prompt, "User Query: "), 120)), nil
	default:
		return fmt.Sprintf("Stub response %s", short), nil
	}
}

// fieldAfter returns the rest of the line following marker.
func fieldAfter(prompt, marker string) string {
	i := strings.Index(prompt, marker)
	if i < 0 {
		return ""
	}
	rest := prompt[i+len(marker):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
