package postgres

import "github.com/fwojciec/dbchat"

// Sanitize exports sanitize for testing.
func Sanitize(s string) string {
	return sanitize(s)
}

// DSN exports dsn for testing.
func DSN(cfg dbchat.ConnectionConfig) string {
	return dsn(cfg)
}
