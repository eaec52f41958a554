package dbchat

import "context"

// Completer abstracts a language model provider. One fully interpolated
// prompt goes in; the raw completion text comes back. There is no
// streaming and no retry: a failed call surfaces as an error carrying
// ErrModelUnavailable or ErrModelTimeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
