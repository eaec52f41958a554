package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dbchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SchemaFn", func(t *testing.T) {
		t.Parallel()
		db := mock.Database{
			SchemaFn: func(ctx context.Context) (string, error) {
				return "CREATE TABLE artists (id int);", nil
			},
		}
		got, err := db.Schema(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE artists (id int);", got)
	})

	t.Run("delegates to RunFn", func(t *testing.T) {
		t.Parallel()
		var gotSQL string
		db := mock.Database{
			RunFn: func(ctx context.Context, sqlText string) (string, error) {
				gotSQL = sqlText
				return "275", nil
			},
		}
		got, err := db.Run(context.Background(), "SELECT COUNT(*) FROM artists;")
		require.NoError(t, err)
		assert.Equal(t, "275", got)
		assert.Equal(t, "SELECT COUNT(*) FROM artists;", gotSQL)
	})

	t.Run("delegates to CloseFn", func(t *testing.T) {
		t.Parallel()
		closed := false
		db := mock.Database{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}
		require.NoError(t, db.Close())
		assert.True(t, closed)
	})

	t.Run("nil CloseFn is a no-op", func(t *testing.T) {
		t.Parallel()
		var db mock.Database
		assert.NoError(t, db.Close())
	})
}

func TestCompleter(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()
		var gotPrompt string
		c := mock.Completer{
			CompleteFn: func(ctx context.Context, prompt string) (string, error) {
				gotPrompt = prompt
				return "SELECT 1;", nil
			},
		}
		got, err := c.Complete(context.Background(), "how many artists?")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1;", got)
		assert.Equal(t, "how many artists?", gotPrompt)
	})
}
