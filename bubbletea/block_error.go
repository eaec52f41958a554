package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// TurnFailedText is the canned transcript line shown when a turn fails.
// The underlying error kind goes to the log, not the screen.
const TurnFailedText = "I couldn't complete that request."

// ErrorBlock renders a failed turn.
type ErrorBlock struct {
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(styles Styles) *ErrorBlock {
	return &ErrorBlock{styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render(TurnFailedText)
	return lipgloss.NewStyle().Width(width).Render(content)
}
