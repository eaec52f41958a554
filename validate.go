package dbchat

import (
	"fmt"
	"strconv"
)

// Validate checks that every connection field is present and the port is
// numeric. It does not attempt to connect.
func (c ConnectionConfig) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"host", c.Host},
		{"port", c.Port},
		{"user", c.User},
		{"password", c.Password},
		{"database", c.Database},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s must not be empty: %w", f.name, ErrValidation)
		}
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("port must be numeric, got %q: %w", c.Port, ErrValidation)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be in [1, 65535], got %d: %w", port, ErrValidation)
	}
	return nil
}
