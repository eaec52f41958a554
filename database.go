package dbchat

import "context"

// Database is the gateway to the relational database a session chats
// about. Implementations execute whatever SQL text they are given
// verbatim; the safety gate runs before this interface is reached.
type Database interface {
	// Schema returns a textual description of the tables and columns the
	// connected role can see. It is fetched fresh for every pipeline
	// invocation and never cached.
	Schema(ctx context.Context) (string, error)

	// Run executes sqlText and returns a textual rendering of the result
	// set (or a placeholder for statements that produce none).
	// Cancellation and deadlines flow through ctx.
	Run(ctx context.Context, sqlText string) (string, error)

	// Close releases the underlying connection handle.
	Close() error
}

// ConnectionConfig carries the parameters needed to open a database
// connection. It is immutable for the lifetime of a session.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}
