package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/fwojciec/dbchat"
)

// Interface compliance check.
var _ dbchat.Completer = (*Client)(nil)

// Client implements [dbchat.Completer] for OpenAI-compatible endpoints.
type Client struct {
	model   string
	baseURL string
	timeout time.Duration
	api     *goopenai.Client
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

// WithBaseURL points the client at an OpenAI-compatible endpoint. Useful
// for alternate hosts such as Groq, and for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout bounds a single completion call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a new [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	c.api = goopenai.NewClientWithConfig(cfg)
	return c
}

// Complete sends prompt as a single user message and returns the first
// choice's text verbatim.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", completionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", dbchat.ErrModelUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func completionError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", dbchat.ErrModelTimeout, err)
	}
	return fmt.Errorf("%w: %w", dbchat.ErrModelUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
