package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/fwojciec/dbchat"
)

// Interface compliance check.
var _ dbchat.Completer = (*Client)(nil)

// Client implements [dbchat.Completer] for the Google Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Empty string keeps the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds a single completion call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		model:   defaultModel,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: c.timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// Complete sends prompt as a single user content and returns the reply
// text of the first candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, BuildContents(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: defaultMaxTokens,
	})
	if err != nil {
		return "", completionError(err)
	}
	text := ExtractText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: no text content in reply", dbchat.ErrModelUnavailable)
	}
	return text, nil
}

// BuildContents wraps prompt in a single user content.
// Exported for testing.
func BuildContents(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

// ExtractText concatenates the text parts of the first candidate,
// skipping thought parts. Exported for testing.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func completionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", dbchat.ErrModelTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", dbchat.ErrModelTimeout, err)
	}
	return fmt.Errorf("%w: %w", dbchat.ErrModelUnavailable, err)
}
