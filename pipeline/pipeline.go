// Package pipeline orchestrates a conversation turn: greeting check, SQL
// synthesis, safety gate, query execution, answer synthesis.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/dbchat"
	"go.uber.org/zap"
)

const (
	// DefaultHistoryLimit is how many recent messages prompts include.
	DefaultHistoryLimit = 5

	// DefaultQueryTimeout bounds the execution of a generated query.
	DefaultQueryTimeout = 30 * time.Second
)

// Pipeline turns a user question into a (SQL, answer) response using a
// language model and the session's database.
type Pipeline struct {
	completer    dbchat.Completer
	historyLimit int
	queryTimeout time.Duration
	logger       *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHistoryLimit caps how many recent messages prompts include.
func WithHistoryLimit(n int) Option {
	return func(p *Pipeline) {
		p.historyLimit = n
	}
}

// WithQueryTimeout bounds how long a generated query may run.
func WithQueryTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.queryTimeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline around completer.
func New(completer dbchat.Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer:    completer,
		historyLimit: DefaultHistoryLimit,
		queryTimeout: DefaultQueryTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Respond produces the assistant's reply to question. On success the
// human turn and the AI turn are appended to sess. On error nothing is
// appended and the returned error carries one of the dbchat sentinel
// kinds, so callers can distinguish failure modes with errors.Is.
func (p *Pipeline) Respond(ctx context.Context, sess *dbchat.Session, question string) (dbchat.Response, error) {
	resp, err := p.respond(ctx, sess, question)
	if err != nil {
		p.logger.Error("turn failed",
			zap.String("kind", errorKind(err)),
			zap.Error(err),
		)
		return dbchat.Response{}, err
	}

	now := time.Now()
	sess.Append(
		dbchat.HumanMessage{Text: question, Timestamp: now},
		dbchat.AIMessage{Text: resp.Answer, Timestamp: now},
	)
	p.logger.Info("turn completed", zap.Bool("ran_sql", resp.SQL != ""))
	return resp, nil
}

func (p *Pipeline) respond(ctx context.Context, sess *dbchat.Session, question string) (dbchat.Response, error) {
	if reply, ok := dbchat.GreetingReply(question); ok {
		return dbchat.Response{Answer: reply}, nil
	}

	history := renderHistory(sess.Recent(p.historyLimit))

	// One fresh schema snapshot per turn, shared by both prompts.
	schema, err := sess.DB.Schema(ctx)
	if err != nil {
		return dbchat.Response{}, err
	}

	// The completion is used verbatim: no trimming, no fence stripping.
	sqlText, err := p.completer.Complete(ctx, sqlPrompt(schema, history, question))
	if err != nil {
		return dbchat.Response{}, err
	}

	if !dbchat.IsSafeQuery(sqlText) {
		p.logger.Warn("query rejected by safety gate", zap.String("sql", sqlText))
		return dbchat.Response{Answer: dbchat.UnsafeQueryReply}, nil
	}

	result, err := p.runQuery(ctx, sess.DB, sqlText)
	if err != nil {
		return dbchat.Response{}, err
	}

	answer, err := p.completer.Complete(ctx, answerPrompt(schema, history, sqlText, question, result))
	if err != nil {
		return dbchat.Response{}, err
	}

	return dbchat.Response{SQL: sqlText, Answer: answer}, nil
}

func (p *Pipeline) runQuery(ctx context.Context, db dbchat.Database, sqlText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()
	return db.Run(ctx, sqlText)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, dbchat.ErrSchemaFetch):
		return "schema_fetch"
	case errors.Is(err, dbchat.ErrQueryExecution):
		return "query_execution"
	case errors.Is(err, dbchat.ErrModelTimeout):
		return "model_timeout"
	case errors.Is(err, dbchat.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, dbchat.ErrConnection):
		return "connection"
	default:
		return "unknown"
	}
}
