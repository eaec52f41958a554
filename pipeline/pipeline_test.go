package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/dbchat"
	"github.com/fwojciec/dbchat/mock"
	"github.com/fwojciec/dbchat/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// newSession returns a session over db without the welcome seed, so tests
// control exactly what history the prompts see.
func newSession(db dbchat.Database, msgs ...dbchat.Message) *dbchat.Session {
	return &dbchat.Session{DB: db, Messages: msgs}
}

// untouchedDB fails the test if any database method is called.
func untouchedDB(t *testing.T) *mock.Database {
	t.Helper()
	return &mock.Database{
		SchemaFn: func(context.Context) (string, error) {
			t.Error("Schema should not be called")
			return "", nil
		},
		RunFn: func(context.Context, string) (string, error) {
			t.Error("Run should not be called")
			return "", nil
		},
	}
}

// untouchedCompleter fails the test if the model is called.
func untouchedCompleter(t *testing.T) *mock.Completer {
	t.Helper()
	return &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) {
			t.Error("Complete should not be called")
			return "", nil
		},
	}
}

func TestPipeline_Respond_Greeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hello", "hello", "Hello! How can I assist you today?"},
		{"uppercase", "HELLO", "Hello! How can I assist you today?"},
		{"bye", "bye", "Goodbye! Have a great day!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sess := newSession(untouchedDB(t))
			p := pipeline.New(untouchedCompleter(t))

			resp, err := p.Respond(context.Background(), sess, tt.input)
			require.NoError(t, err)

			assert.Empty(t, resp.SQL)
			assert.Equal(t, tt.want, resp.Answer)

			require.Len(t, sess.Messages, 2)
			assert.Equal(t, tt.input, sess.Messages[0].(dbchat.HumanMessage).Text)
			assert.Equal(t, tt.want, sess.Messages[1].(dbchat.AIMessage).Text)
		})
	}
}

func TestPipeline_Respond_UnsafeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sql  string
	}{
		{"delete", "DELETE FROM customers;"},
		{"update", "UPDATE customers SET name = 'x';"},
		{"mutation hidden in select", "SELECT last_updated FROM customers;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := &mock.Database{
				SchemaFn: func(context.Context) (string, error) {
					return "CREATE TABLE customers (id bigint, name text);", nil
				},
				RunFn: func(context.Context, string) (string, error) {
					t.Error("Run should not be called for an unsafe query")
					return "", nil
				},
			}
			completer := &mock.Completer{
				CompleteFn: func(_ context.Context, _ string) (string, error) {
					return tt.sql, nil
				},
			}

			sess := newSession(db)
			p := pipeline.New(completer)

			resp, err := p.Respond(context.Background(), sess, "Remove all customers")
			require.NoError(t, err)

			assert.Empty(t, resp.SQL)
			assert.Equal(t, dbchat.UnsafeQueryReply, resp.Answer)

			require.Len(t, sess.Messages, 2)
			assert.Equal(t, dbchat.UnsafeQueryReply, sess.Messages[1].(dbchat.AIMessage).Text)
		})
	}
}

func TestPipeline_Respond_DataQuestion(t *testing.T) {
	t.Parallel()

	const (
		schema   = "CREATE TABLE customers (\n\tid bigint,\n\tname text\n);"
		question = "How many customers are there?"
		sqlText  = "SELECT COUNT(*) FROM customers;"
		result   = "15"
		answer   = "There are 15 customers."
	)

	var schemaCalls int
	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) {
			schemaCalls++
			return schema, nil
		},
		RunFn: func(_ context.Context, gotSQL string) (string, error) {
			assert.Equal(t, sqlText, gotSQL)
			return result, nil
		},
	}

	var prompts []string
	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			switch len(prompts) {
			case 1:
				return sqlText, nil
			case 2:
				return answer, nil
			default:
				return "", fmt.Errorf("unexpected completion call %d", len(prompts))
			}
		},
	}

	sess := newSession(db, dbchat.AIMessage{Text: dbchat.WelcomeText})
	p := pipeline.New(completer)

	resp, err := p.Respond(context.Background(), sess, question)
	require.NoError(t, err)

	assert.Equal(t, sqlText, resp.SQL)
	assert.Equal(t, answer, resp.Answer)

	assert.Equal(t, 1, schemaCalls, "schema should be fetched exactly once per turn")
	require.Len(t, prompts, 2)

	// First prompt: schema, prior history, the question; not the result.
	assert.Contains(t, prompts[0], "<SCHEMA>"+schema+"</SCHEMA>")
	assert.Contains(t, prompts[0], "AI: "+dbchat.WelcomeText)
	assert.Contains(t, prompts[0], "Question: "+question)
	assert.NotContains(t, prompts[0], "Human: "+question, "current question must not appear in history")

	// Second prompt: same schema snapshot, the SQL, and the raw result.
	assert.Contains(t, prompts[1], "<SCHEMA>"+schema+"</SCHEMA>")
	assert.Contains(t, prompts[1], "SQL Query: <SQL>"+sqlText+"</SQL>")
	assert.Contains(t, prompts[1], "SQL Response: "+result)
	assert.Contains(t, prompts[1], "User question: "+question)

	// Both turns recorded in order.
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, question, sess.Messages[1].(dbchat.HumanMessage).Text)
	assert.Equal(t, answer, sess.Messages[2].(dbchat.AIMessage).Text)
}

func TestPipeline_Respond_CompletionUsedVerbatim(t *testing.T) {
	t.Parallel()

	// Code fences and whitespace are not stripped. This completion still
	// passes the gate, so it goes to the database exactly as produced.
	const raw = "```sql\nSELECT COUNT(*) FROM customers;\n```"

	var ranSQL string
	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) { return "schema", nil },
		RunFn: func(_ context.Context, gotSQL string) (string, error) {
			ranSQL = gotSQL
			return "15", nil
		},
	}
	calls := 0
	completer := &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) {
			calls++
			if calls == 1 {
				return raw, nil
			}
			return "There are 15 customers.", nil
		},
	}

	p := pipeline.New(completer)
	resp, err := p.Respond(context.Background(), newSession(db), "How many customers are there?")
	require.NoError(t, err)

	assert.Equal(t, raw, ranSQL)
	assert.Equal(t, raw, resp.SQL)
}

func TestPipeline_Respond_HistoryTruncation(t *testing.T) {
	t.Parallel()

	var history []dbchat.Message
	for i := 1; i <= 4; i++ {
		history = append(history,
			dbchat.HumanMessage{Text: fmt.Sprintf("question %d", i)},
			dbchat.AIMessage{Text: fmt.Sprintf("answer %d", i)},
		)
	}

	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) { return "schema", nil },
		RunFn:    func(context.Context, string) (string, error) { return "1", nil },
	}
	var first string
	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, prompt string) (string, error) {
			if first == "" {
				first = prompt
				return "SELECT 1;", nil
			}
			return "One.", nil
		},
	}

	sess := newSession(db, history...)
	p := pipeline.New(completer)

	_, err := p.Respond(context.Background(), sess, "current question")
	require.NoError(t, err)

	// Only the 5 most recent messages, in their original order.
	assert.NotContains(t, first, "question 2")
	assert.Contains(t, first, "answer 2")
	for i := 3; i <= 4; i++ {
		assert.Contains(t, first, fmt.Sprintf("question %d", i))
		assert.Contains(t, first, fmt.Sprintf("answer %d", i))
	}
	aIdx := strings.Index(first, "AI: answer 2")
	hIdx := strings.Index(first, "Human: question 3")
	require.GreaterOrEqual(t, aIdx, 0)
	require.Greater(t, hIdx, aIdx, "history order should be preserved")
}

func TestPipeline_Respond_Errors(t *testing.T) {
	t.Parallel()

	t.Run("schema fetch failure", func(t *testing.T) {
		t.Parallel()

		db := &mock.Database{
			SchemaFn: func(context.Context) (string, error) {
				return "", fmt.Errorf("information_schema query: %w", dbchat.ErrSchemaFetch)
			},
		}

		sess := newSession(db)
		p := pipeline.New(untouchedCompleter(t))

		_, err := p.Respond(context.Background(), sess, "How many customers are there?")
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbchat.ErrSchemaFetch))
		assert.Empty(t, sess.Messages, "no turns recorded on error")
	})

	t.Run("model failure", func(t *testing.T) {
		t.Parallel()

		db := &mock.Database{
			SchemaFn: func(context.Context) (string, error) { return "schema", nil },
			RunFn: func(context.Context, string) (string, error) {
				t.Error("Run should not be called when the model fails")
				return "", nil
			},
		}
		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "", fmt.Errorf("status 500: %w", dbchat.ErrModelUnavailable)
			},
		}

		sess := newSession(db)
		p := pipeline.New(completer)

		_, err := p.Respond(context.Background(), sess, "How many customers are there?")
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbchat.ErrModelUnavailable))
		assert.Empty(t, sess.Messages)
	})

	t.Run("query execution failure", func(t *testing.T) {
		t.Parallel()

		db := &mock.Database{
			SchemaFn: func(context.Context) (string, error) { return "schema", nil },
			RunFn: func(context.Context, string) (string, error) {
				return "", fmt.Errorf(`relation "nope" does not exist: %w`, dbchat.ErrQueryExecution)
			},
		}
		calls := 0
		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				calls++
				return "SELECT * FROM nope;", nil
			},
		}

		sess := newSession(db)
		p := pipeline.New(completer)

		_, err := p.Respond(context.Background(), sess, "What is in nope?")
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbchat.ErrQueryExecution))
		assert.Equal(t, 1, calls, "answer synthesis should not run after a failed query")
		assert.Empty(t, sess.Messages)
	})

	t.Run("model timeout", func(t *testing.T) {
		t.Parallel()

		db := &mock.Database{
			SchemaFn: func(context.Context) (string, error) { return "schema", nil },
		}
		completer := &mock.Completer{
			CompleteFn: func(context.Context, string) (string, error) {
				return "", fmt.Errorf("deadline exceeded: %w", dbchat.ErrModelTimeout)
			},
		}

		p := pipeline.New(completer)
		_, err := p.Respond(context.Background(), newSession(db), "How many customers are there?")
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbchat.ErrModelTimeout))
		assert.False(t, errors.Is(err, dbchat.ErrModelUnavailable))
	})
}

func TestPipeline_Respond_QueryTimeout(t *testing.T) {
	t.Parallel()

	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) { return "schema", nil },
		RunFn: func(ctx context.Context, _ string) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "Run should receive a deadline")
			assert.LessOrEqual(t, time.Until(deadline), 10*time.Second)
			return "1", nil
		},
	}
	completer := &mock.Completer{
		CompleteFn: func(ctx context.Context, _ string) (string, error) {
			_, ok := ctx.Deadline()
			assert.False(t, ok, "the query timeout must not leak into model calls")
			return "SELECT 1;", nil
		},
	}

	p := pipeline.New(completer, pipeline.WithQueryTimeout(10*time.Second))
	_, err := p.Respond(context.Background(), newSession(db), "How many customers are there?")
	require.NoError(t, err)
}

func TestPipeline_Respond_SchemaFetchedFreshEachTurn(t *testing.T) {
	t.Parallel()

	schemaCalls := 0
	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) {
			schemaCalls++
			return "schema", nil
		},
		RunFn: func(context.Context, string) (string, error) { return "1", nil },
	}
	completer := &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) { return "SELECT 1;", nil },
	}

	sess := newSession(db)
	p := pipeline.New(completer)

	for i := 0; i < 3; i++ {
		_, err := p.Respond(context.Background(), sess, "How many customers are there?")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, schemaCalls, "schema is never cached across turns")
}

func TestPipeline_Respond_LogsRejectedQuery(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) { return "schema", nil },
	}
	completer := &mock.Completer{
		CompleteFn: func(context.Context, string) (string, error) {
			return "DELETE FROM customers;", nil
		},
	}

	p := pipeline.New(completer, pipeline.WithLogger(zap.New(core)))
	_, err := p.Respond(context.Background(), newSession(db), "Remove all customers")
	require.NoError(t, err)

	entries := logs.FilterMessage("query rejected by safety gate").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "DELETE FROM customers;", entries[0].ContextMap()["sql"])
}

func TestPipeline_Respond_WithHistoryLimit(t *testing.T) {
	t.Parallel()

	var history []dbchat.Message
	for i := 1; i <= 3; i++ {
		history = append(history, dbchat.HumanMessage{Text: fmt.Sprintf("old %d", i)})
	}

	db := &mock.Database{
		SchemaFn: func(context.Context) (string, error) { return "schema", nil },
		RunFn:    func(context.Context, string) (string, error) { return "1", nil },
	}
	var first string
	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, prompt string) (string, error) {
			if first == "" {
				first = prompt
				return "SELECT 1;", nil
			}
			return "One.", nil
		},
	}

	p := pipeline.New(completer, pipeline.WithHistoryLimit(1))
	_, err := p.Respond(context.Background(), newSession(db, history...), "current")
	require.NoError(t, err)

	assert.NotContains(t, first, "old 1")
	assert.NotContains(t, first, "old 2")
	assert.Contains(t, first, "Human: old 3")
}
