package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/dbchat"
	"github.com/fwojciec/dbchat/anthropic"
	"github.com/fwojciec/dbchat/gemini"
	"github.com/fwojciec/dbchat/openai"
)

// envKeys carries the provider-related environment values. Env vars are
// only read in main() and passed here as values.
type envKeys struct {
	OpenAI        string
	Anthropic     string
	Gemini        string
	OpenAIBaseURL string
}

// resolveCompleter selects and constructs the completion client. The
// -api-key flag overrides the selected provider's env var, and
// OPENAI_BASE_URL overrides the config file's base URL for the openai
// provider.
func resolveCompleter(ctx context.Context, name, model, baseURL, apiKeyFlag string, keys envKeys) (dbchat.Completer, error) {
	// Auto-detect from env vars if no explicit provider.
	if name == "" {
		var found []string
		if keys.OpenAI != "" {
			found = append(found, "OPENAI_API_KEY")
		}
		if keys.Anthropic != "" {
			found = append(found, "ANTHROPIC_API_KEY")
		}
		if keys.Gemini != "" {
			found = append(found, "GEMINI_API_KEY")
		}
		switch len(found) {
		case 0:
			return nil, fmt.Errorf("no API key found: set OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY (or use -provider and -api-key flags)")
		case 1:
			switch found[0] {
			case "OPENAI_API_KEY":
				name = "openai"
			case "ANTHROPIC_API_KEY":
				name = "anthropic"
			case "GEMINI_API_KEY":
				name = "gemini"
			}
		default:
			return nil, fmt.Errorf("multiple API keys found (%s): use -provider flag to select", strings.Join(found, ", "))
		}
	}

	// Explicit flag overrides the env var.
	key := apiKeyFlag

	switch name {
	case "openai":
		if key == "" {
			key = keys.OpenAI
		}
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set (use -api-key flag or environment variable)")
		}
		if keys.OpenAIBaseURL != "" {
			baseURL = keys.OpenAIBaseURL
		}
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		return openai.New(key, opts...), nil

	case "anthropic":
		if key == "" {
			key = keys.Anthropic
		}
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set (use -api-key flag or environment variable)")
		}
		var opts []anthropic.Option
		if model != "" {
			opts = append(opts, anthropic.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		return anthropic.New(key, opts...), nil

	case "gemini":
		if key == "" {
			key = keys.Gemini
		}
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		if baseURL != "" {
			return nil, fmt.Errorf("gemini does not support a custom base URL")
		}
		var opts []gemini.Option
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		client, err := gemini.New(ctx, key, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"openai\", \"anthropic\" or \"gemini\"", name)
	}
}
