// Command dbchat is a terminal chat for querying a PostgreSQL database
// in plain language.
//
// Usage:
//
//	OPENAI_API_KEY=sk-...    dbchat [flags]
//	ANTHROPIC_API_KEY=sk-... dbchat [flags]
//	GEMINI_API_KEY=gk-...    dbchat [flags]
//
// Flags:
//
//	-provider string  Provider: openai, anthropic, gemini (auto-detected from env vars if omitted)
//	-model string     Model ID (default: provider default)
//	-api-key string   API key (overrides the provider's env var)
//	-config string    Path to config file (default: $DBCHAT_CONFIG or ~/.dbchat/config.toml)
//	-debug            Log at debug level
//
// The connection form is prefilled from the config file; PGPASSWORD, if
// set, prefills the password field. OPENAI_BASE_URL points the openai
// provider at a compatible endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fwojciec/dbchat"
	bt "github.com/fwojciec/dbchat/bubbletea"
	"github.com/fwojciec/dbchat/config"
	"github.com/fwojciec/dbchat/logger"
	"github.com/fwojciec/dbchat/pipeline"
	"github.com/fwojciec/dbchat/postgres"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dbchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		providerFlag = flag.String("provider", "", "Provider: openai, anthropic, gemini (auto-detected from env vars if omitted)")
		modelFlag    = flag.String("model", "", "Model ID (provider-specific)")
		apiKeyFlag   = flag.String("api-key", "", "API key (overrides the provider's env var)")
		configFlag   = flag.String("config", "", "Path to config file")
		debugFlag    = flag.Bool("debug", false, "Log at debug level")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Resolve the config path. Env vars are read here and passed on as
	// values.
	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv("DBCHAT_CONFIG")
	}
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	log, closeLog, err := logger.New(cfg.Log.Path, cfg.Log.Level, *debugFlag)
	if err != nil {
		return err
	}
	defer closeLog()

	// Flags override config file values.
	providerName := *providerFlag
	if providerName == "" {
		providerName = cfg.Provider
	}
	model := *modelFlag
	if model == "" {
		model = cfg.Model
	}

	completer, err := resolveCompleter(ctx, providerName, model, cfg.BaseURL, *apiKeyFlag, envKeys{
		OpenAI:        os.Getenv("OPENAI_API_KEY"),
		Anthropic:     os.Getenv("ANTHROPIC_API_KEY"),
		Gemini:        os.Getenv("GEMINI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	if err != nil {
		return err
	}

	pipe := pipeline.New(completer, pipeline.WithLogger(log))

	connect := func(ctx context.Context, cc dbchat.ConnectionConfig) (dbchat.Database, error) {
		return postgres.Open(ctx, cc)
	}

	prefill := dbchat.ConnectionConfig{
		Host:     cfg.Connection.Host,
		Port:     cfg.Connection.Port,
		User:     cfg.Connection.User,
		Password: os.Getenv("PGPASSWORD"),
		Database: cfg.Connection.Database,
	}

	log.Info("starting",
		zap.String("config", configPath),
		zap.String("provider", providerName))

	// Create and run TUI.
	m := bt.New(connect, pipe.Respond, prefill, dbchat.DefaultTheme())
	final, err := bt.Run(ctx, m)
	if err != nil {
		log.Error("TUI failed", zap.Error(err))
		return fmt.Errorf("TUI: %w", err)
	}

	// Release the connection handle on exit.
	if sess := final.Session(); sess != nil {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("close database", zap.Error(cerr))
		}
	}

	log.Info("exited")
	return nil
}
