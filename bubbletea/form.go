package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/dbchat"
)

// Connection form field order. Password is masked; everything else
// echoes normally.
const (
	fieldHost = iota
	fieldPort
	fieldUser
	fieldPassword
	fieldDatabase
	fieldCount
)

var fieldLabels = [fieldCount]string{"Host", "Port", "User", "Password", "Database"}

func newFormInputs(cfg dbchat.ConnectionConfig) []textinput.Model {
	values := [fieldCount]string{cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0
		ti.SetValue(values[i])
		if i == fieldPassword {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[fieldHost].Focus()
	return inputs
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.connecting {
			return m, nil
		}
		if m.focusIndex < fieldCount-1 {
			return m.focusField(m.focusIndex + 1)
		}
		return m.submitForm()

	case tea.KeyTab, tea.KeyDown:
		if m.connecting {
			return m, nil
		}
		return m.focusField((m.focusIndex + 1) % fieldCount)

	case tea.KeyShiftTab, tea.KeyUp:
		if m.connecting {
			return m, nil
		}
		return m.focusField((m.focusIndex + fieldCount - 1) % fieldCount)
	}

	if m.connecting {
		return m, nil
	}
	var cmd tea.Cmd
	m.Inputs[m.focusIndex], cmd = m.Inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) focusField(index int) (tea.Model, tea.Cmd) {
	m.Inputs[m.focusIndex].Blur()
	m.focusIndex = index
	cmd := m.Inputs[m.focusIndex].Focus()
	return m, cmd
}

// submitForm validates the form and starts the async connect. Validation
// failures never leave the form; the driver is only reached with a
// complete configuration.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	cfg := m.formConfig()
	if err := cfg.Validate(); err != nil {
		m.formErr = err
		return m, nil
	}
	m.formErr = nil
	m.connecting = true
	m.Inputs[m.focusIndex].Blur()
	return m, startConnect(m.connect, cfg)
}

func (m Model) formConfig() dbchat.ConnectionConfig {
	return dbchat.ConnectionConfig{
		Host:     strings.TrimSpace(m.Inputs[fieldHost].Value()),
		Port:     strings.TrimSpace(m.Inputs[fieldPort].Value()),
		User:     strings.TrimSpace(m.Inputs[fieldUser].Value()),
		Password: m.Inputs[fieldPassword].Value(),
		Database: strings.TrimSpace(m.Inputs[fieldDatabase].Value()),
	}
}

// startConnect opens the database connection in a goroutine and delivers
// the outcome as a single message.
func startConnect(connect ConnectFunc, cfg dbchat.ConnectionConfig) tea.Cmd {
	return func() tea.Msg {
		db, err := connect(context.Background(), cfg)
		if err != nil {
			return ConnectFailedMsg{Err: err}
		}
		return ConnectedMsg{DB: db}
	}
}

func (m Model) formView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.styles.Accent.Render("Chat with PostgreSQL"))
	b.WriteString("\n\n")
	for i, input := range m.Inputs {
		label := fmt.Sprintf("%-10s", fieldLabels[i])
		if i == m.focusIndex && !m.connecting {
			b.WriteString("  " + m.styles.Accent.Render(label))
		} else {
			b.WriteString("  " + m.styles.Muted.Render(label))
		}
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(m.formStatus())
	b.WriteString("\n")
	return b.String()
}

func (m Model) formStatus() string {
	if m.connecting {
		return m.styles.Muted.Render("Connecting to database...")
	}
	if m.formErr != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.formErr))
	}
	return m.styles.Muted.Render("Enter to connect, Ctrl+C to quit")
}
