// Package gemini implements [dbchat.Completer] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, sending the prompt as a
// single user content and reading the reply from the first candidate.
package gemini

import "time"

const (
	defaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 65536
	defaultTimeout   = 60 * time.Second
)
