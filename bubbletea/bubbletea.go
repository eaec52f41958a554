// Package bubbletea provides the Bubble Tea TUI for dbchat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/dbchat"
)

// ConnectFunc opens a database connection for a validated configuration.
// The TUI calls it from a command goroutine when the connection form is
// submitted.
type ConnectFunc func(ctx context.Context, cfg dbchat.ConnectionConfig) (dbchat.Database, error)

// RunnerFunc runs one conversational turn against the session. It blocks
// until the turn completes or the context is cancelled.
type RunnerFunc func(ctx context.Context, session *dbchat.Session, question string) (dbchat.Response, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits and returns the final model state so the caller can
// release the session's resources. Cancelling the context quits the
// program.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	fm, ok := final.(Model)
	if !ok {
		return m, err
	}
	return fm, err
}

// ConnectedMsg signals that the connection form's async connect succeeded.
type ConnectedMsg struct {
	DB dbchat.Database
}

// ConnectFailedMsg signals that the connection attempt failed.
type ConnectFailedMsg struct {
	Err error
}

// TurnDoneMsg signals that a conversational turn has completed.
type TurnDoneMsg struct {
	Response dbchat.Response
	Err      error
}
