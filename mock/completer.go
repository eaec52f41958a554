package mock

import (
	"context"

	"github.com/fwojciec/dbchat"
)

// Interface compliance check.
var _ dbchat.Completer = (*Completer)(nil)

// Completer is a test double for dbchat.Completer.
// Set CompleteFn before calling Complete.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
}

// Complete delegates to CompleteFn.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteFn(ctx, prompt)
}
