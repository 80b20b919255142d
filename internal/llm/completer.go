// Package llm layers JSON completion on top of the raw Anthropic client:
// one prompt in, one extracted JSON value out. Every call is attempted
// exactly once; retries, timeouts, and rate limiting are all deliberately
// absent.
package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claim-pilot/pkg/anthropic"
)

// Completer sends a prompt to the generative-text service and returns either
// the raw text or a JSON value extracted from it.
type Completer interface {
	CompleteText(ctx context.Context, step, prompt string) (string, error)
	CompleteJSON(ctx context.Context, step, prompt string) (json.RawMessage, error)
}

// Options configures a Completer. System, when set, is sent as the system
// prompt on every request.
type Options struct {
	Model     string
	MaxTokens int64
	System    string
}

type completer struct {
	client anthropic.Client
	opts   Options
}

// NewCompleter creates a Completer backed by the given Anthropic client.
func NewCompleter(client anthropic.Client, opts Options) Completer {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	return &completer{client: client, opts: opts}
}

func (c *completer) CompleteText(ctx context.Context, step, prompt string) (string, error) {
	temp := 0.0
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		System:      c.opts.System,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", NewNetworkError(eris.Wrap(err, "llm: complete"))
	}

	resp.Usage.LogCost(c.opts.Model, step)

	return strings.TrimSpace(extractText(resp)), nil
}

func (c *completer) CompleteJSON(ctx context.Context, step, prompt string) (json.RawMessage, error) {
	text, err := c.CompleteText(ctx, step, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := cleanJSON(text)
	if cleaned == "" || !json.Valid([]byte(cleaned)) {
		zap.L().Debug("llm: completion contained no valid JSON",
			zap.String("step", step),
			zap.Int("raw_len", len(text)),
		)
		return nil, NewParseError(eris.New("llm: no JSON object in completion"), text)
	}

	return json.RawMessage(cleaned), nil
}

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping. Fenced ```json blocks win; failing
// that, the span from the first '{' to the last '}' is taken.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}

	return strings.TrimSpace(text[start : end+1])
}
