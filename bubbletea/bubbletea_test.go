package bubbletea_test

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/dbchat"
	bt "github.com/fwojciec/dbchat/bubbletea"
	"github.com/fwojciec/dbchat/mock"
	"github.com/stretchr/testify/require"
)

// validConfig returns a complete connection configuration for form tests.
func validConfig() dbchat.ConnectionConfig {
	return dbchat.ConnectionConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		Database: "chinook",
	}
}

// initForm creates a model on the connection form and initializes its size.
func initForm(t *testing.T, cfg dbchat.ConnectionConfig) bt.Model {
	t.Helper()
	m := bt.New(nopConnect, nopRunner, cfg, dbchat.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// initChat creates a model, connects it to a mock database, and lands on
// the chat screen.
func initChat(t *testing.T, run bt.RunnerFunc) bt.Model {
	t.Helper()
	return initChatWithSize(t, run, 80, 24)
}

// initChatWithSize creates a connected model with a custom terminal size.
func initChatWithSize(t *testing.T, run bt.RunnerFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(nopConnect, run, validConfig(), dbchat.DefaultTheme())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	m = updateModel(t, m, bt.ConnectedMsg{DB: &mock.Database{}})
	require.True(t, bt.OnChat(m))
	return m
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeInputString feeds runes to a text input one keypress at a time.
func typeInputString(t *testing.T, ti textinput.Model, s string) textinput.Model {
	t.Helper()
	for _, r := range s {
		ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return ti
}

// nopConnect returns an idle mock database.
func nopConnect(_ context.Context, _ dbchat.ConnectionConfig) (dbchat.Database, error) {
	return &mock.Database{}, nil
}

// nopRunner completes a turn with an empty response.
func nopRunner(_ context.Context, _ *dbchat.Session, _ string) (dbchat.Response, error) {
	return dbchat.Response{}, nil
}
