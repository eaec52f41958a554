package dbchat

import "errors"

// Sentinel errors for common failure modes. Callers distinguish failure
// kinds with errors.Is rather than by matching message text.
var (
	// ErrConnection indicates the database could not be reached or opened.
	ErrConnection = errors.New("database connection error")

	// ErrSchemaFetch indicates the schema description could not be read.
	ErrSchemaFetch = errors.New("schema fetch error")

	// ErrQueryExecution indicates a generated query failed to execute.
	ErrQueryExecution = errors.New("query execution error")

	// ErrModelUnavailable indicates the language model endpoint failed.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrModelTimeout indicates a language model call exceeded its deadline.
	ErrModelTimeout = errors.New("model timeout")

	// ErrValidation indicates a connection config failed validation.
	ErrValidation = errors.New("validation error")
)
