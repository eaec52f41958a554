// Package openai implements [dbchat.Completer] for the OpenAI chat
// completions API and any OpenAI-compatible endpoint reachable through a
// custom base URL.
package openai

import "time"

const (
	// DefaultModel is the model the prompts were tuned against.
	DefaultModel = "gpt-4-0125-preview"

	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 60 * time.Second
)
