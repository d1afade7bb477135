package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/format"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/styles"
	"github.com/germanamz/chatwidget/pkg/chats/kind"
	"github.com/germanamz/chatwidget/pkg/chats/message"
)

// View renders the toggle button and, when open, the panel above it.
func (m *Model) View() string {
	toggle := styles.ToggleStyle
	if m.open {
		toggle = styles.ToggleActiveStyle
	}
	button := toggle.Render(format.Truncate(m.cfg.ToggleLabel, max(m.width-4, 1)))

	if !m.open {
		return button
	}
	return lipgloss.JoinVertical(lipgloss.Right, m.viewPanel(), button)
}

func (m *Model) viewPanel() string {
	inner := m.innerWidth()
	sep := styles.SeparatorStyle.Render(strings.Repeat("─", inner))

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(inner),
		sep,
		m.list.View(),
		sep,
		m.input.View(),
	)

	return styles.PanelBorder.Width(m.width - 2).Render(body)
}

func (m *Model) viewHeader(width int) string {
	hint := styles.HeaderHintStyle.Render("esc ✕")
	titleWidth := max(width-lipgloss.Width(hint)-1, 1)
	title := styles.HeaderTitleStyle.Render(format.Truncate(m.cfg.Title, titleWidth))
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	return title + strings.Repeat(" ", gap) + hint
}

// renderTranscript renders every message, one blank line apart.
func (m *Model) renderTranscript() string {
	width := m.innerWidth()
	var sb strings.Builder
	m.transcript.Each(func(i int, msg message.Message) bool {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.renderMessage(msg, width))
		return true
	})
	return sb.String()
}

// renderMessage turns each line-break marker in the text into a visual line
// break, wraps long lines to the panel and prefixes the first line with the
// sender mark.
func (m *Model) renderMessage(msg message.Message, width int) string {
	prefix, prefixStyle, textStyle := styles.BotPrefix, styles.BotPrefixStyle, styles.BotTextStyle
	lines := msg.Lines()

	switch msg.Kind {
	case kind.User:
		prefix, prefixStyle, textStyle = styles.UserPrefix, styles.UserPrefixStyle, styles.UserTextStyle
	case kind.BotPending:
		lines = []string{m.spinner.View() + " " + msg.Text}
		textStyle = styles.PendingStyle
	case kind.Bot:
		if m.cfg.RenderMarkdown {
			lines = format.RenderMarkdown(msg.Text)
		}
	}

	textWidth := max(width-format.Width(prefix), 1)
	var out []string
	for _, line := range lines {
		for _, wrapped := range format.Wrap(line, textWidth) {
			lead := styles.Indent
			if len(out) == 0 {
				lead = prefixStyle.Render(prefix)
			}
			out = append(out, lead+textStyle.Render(wrapped))
		}
	}
	return strings.Join(out, "\n")
}
