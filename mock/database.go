// Package mock provides test doubles for dbchat interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/dbchat"
)

// Interface compliance check.
var _ dbchat.Database = (*Database)(nil)

// Database is a test double for dbchat.Database.
// Set the function fields for the methods you need.
type Database struct {
	SchemaFn func(ctx context.Context) (string, error)
	RunFn    func(ctx context.Context, sqlText string) (string, error)
	CloseFn  func() error
}

// Schema delegates to SchemaFn.
func (d *Database) Schema(ctx context.Context) (string, error) {
	return d.SchemaFn(ctx)
}

// Run delegates to RunFn.
func (d *Database) Run(ctx context.Context, sqlText string) (string, error) {
	return d.RunFn(ctx, sqlText)
}

// Close delegates to CloseFn. A nil CloseFn is a no-op so tests that
// never close the session don't have to set it.
func (d *Database) Close() error {
	if d.CloseFn == nil {
		return nil
	}
	return d.CloseFn()
}
