package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/dbchat"
	"github.com/fwojciec/dbchat/markdown"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders an LLM answer with markdown formatting. Rendering
// is cached per width so resizes re-render but repeated frames at the
// same width do not.
type AnswerBlock struct {
	text            string
	theme           dbchat.Theme
	renderedByWidth map[int]string
}

// NewAnswerBlock creates a block for a completed answer.
func NewAnswerBlock(text string, theme dbchat.Theme) *AnswerBlock {
	return &AnswerBlock{
		text:            text,
		theme:           theme,
		renderedByWidth: make(map[int]string),
	}
}

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	if width <= 0 || b.text == "" {
		return ""
	}
	if cached, ok := b.renderedByWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.text, width, b.theme)
	b.renderedByWidth[width] = rendered
	return rendered
}
