package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/dbchat"
)

var _ tea.Model = Model{}

type screen int

const (
	screenForm screen = iota
	screenChat
)

// Model is the Bubble Tea model for the dbchat TUI. It starts on the
// connection form and switches to the chat screen once a connection is
// established.
type Model struct {
	// Inputs are the connection form fields. Exported for test access.
	Inputs []textinput.Model
	// Input is the chat text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation area. Exported for test access.
	Viewport viewport.Model

	connect ConnectFunc
	run     RunnerFunc
	theme   dbchat.Theme
	styles  Styles

	screen     screen
	focusIndex int // focused form field
	connecting bool
	formErr    error

	session    *dbchat.Session
	blocks     []MessageBlock
	blockFocus int // index of focused collapsible block (-1 = none)

	running bool
	cancel  context.CancelFunc
	err     error

	termWidth  int
	termHeight int
	ready      bool
}

// New creates a TUI Model showing the connection form prefilled from cfg.
func New(connect ConnectFunc, run RunnerFunc, cfg dbchat.ConnectionConfig, theme dbchat.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your data..."
	ti.Prompt = ""
	ti.CharLimit = 0

	return Model{
		Inputs:     newFormInputs(cfg),
		Input:      ti,
		connect:    connect,
		run:        run,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
	}
}

// Running returns whether a conversational turn is currently running.
func (m Model) Running() bool { return m.running }

// Err returns the last turn error, if any.
func (m Model) Err() error { return m.err }

// Session returns the chat session, or nil before a connection is
// established. The session holds the database handle; callers use this
// after Run returns to close it.
func (m Model) Session() *dbchat.Session { return m.session }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenForm {
			return m.handleFormKey(msg)
		}
		return m.handleChatKey(msg)

	case ConnectedMsg:
		m.connecting = false
		m.formErr = nil
		m.session = dbchat.NewSession(msg.DB)
		m.screen = screenChat
		m = m.renderSession()
		m = m.sizeViewport()
		m = m.updateBlockFocus()
		cmd := m.Input.Focus()
		return m, cmd

	case ConnectFailedMsg:
		m.connecting = false
		m.formErr = msg.Err
		cmd := m.Inputs[m.focusIndex].Focus()
		return m, cmd

	case TurnDoneMsg:
		m.running = false
		m.cancel = nil
		switch {
		case msg.Err == nil:
			if msg.Response.SQL != "" {
				m.blocks = append(m.blocks, NewSQLBlock(msg.Response.SQL, m.styles))
			}
			m.blocks = append(m.blocks, NewAnswerBlock(msg.Response.Answer, m.theme))
		case errors.Is(msg.Err, context.Canceled):
			// A cancelled turn leaves no trace in the transcript.
		default:
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(m.styles))
		}
		m = m.updateBlockFocus()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components.
	if m.screen == screenForm {
		if m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Inputs[m.focusIndex], cmd = m.Inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.screen == screenForm {
		return m.formView()
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Conversation area.
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	// Status line.
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	// Input area.
	b.WriteString(m.Input.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.termWidth = msg.Width
	m.termHeight = msg.Height
	if m.screen == screenChat {
		m = m.sizeViewport()
	}
	return m
}

// sizeViewport creates or resizes the viewport for the stored terminal
// size and re-renders content at the new width.
func (m Model) sizeViewport() Model {
	if m.termWidth <= 0 {
		m.termWidth, m.termHeight = 80, 24
	}
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := m.termHeight - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(m.termWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = m.termWidth
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = m.termWidth
	return m
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// submitInput starts a turn for the question. The session itself is only
// updated by the pipeline, which appends the question and answer together
// when the turn succeeds; the transcript block is display state.
func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true

	m.Input.Blur()

	return m, startTurn(m.run, ctx, m.session, text)
}

// renderSession creates blocks from existing session messages.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case dbchat.HumanMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text, m.styles))
		case dbchat.AIMessage:
			m.blocks = append(m.blocks, NewAnswerBlock(msg.Text, m.theme))
		}
	}
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// updateBlockFocus scans backwards to find the last collapsible block.
// Only the focused block responds to Tab. ShiftTab cycles to the previous
// collapsible block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*SQLBlock); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous collapsible block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(*SQLBlock); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	if m.running {
		return m.styles.Muted.Render("Thinking...")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startTurn runs one conversational turn in a goroutine and delivers a
// single TurnDoneMsg when it completes.
func startTurn(run RunnerFunc, ctx context.Context, session *dbchat.Session, question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := run(ctx, session, question)
		return TurnDoneMsg{Response: resp, Err: err}
	}
}
