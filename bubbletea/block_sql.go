package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
)

var _ MessageBlock = (*SQLBlock)(nil)

// SQLBlock renders the SQL generated for a turn behind a collapsible
// toggle so the transcript stays focused on answers.
type SQLBlock struct {
	sql       string
	collapsed bool
	styles    Styles
}

// NewSQLBlock creates a SQLBlock that starts collapsed.
func NewSQLBlock(sql string, styles Styles) *SQLBlock {
	return &SQLBlock{sql: sql, collapsed: true, styles: styles}
}

// SQL returns the raw query text.
func (b *SQLBlock) SQL() string { return b.sql }

func (b *SQLBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *SQLBlock) View(width int) string {
	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.SQL.Render(indicator + " SQL")
	content := header
	if !b.collapsed && b.sql != "" {
		content = header + "\n" + b.sql
	}
	return b.styles.CodeBg.
		Width(width).
		Render(content)
}
