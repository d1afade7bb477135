// Package page is the host screen the chat widget is composed into. It owns
// one widget, places it in the bottom-right corner and routes keys to it.
package page

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/format"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/styles"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/widget"
)

// Config holds the page texts.
type Config struct {
	Title    string
	Endpoint string
}

// Model is the root bubbletea model.
type Model struct {
	cfg    Config
	widget *widget.Model

	width  int
	height int
}

// New creates a page hosting w.
func New(cfg Config, w *widget.Model) *Model {
	return &Model{cfg: cfg, widget: w}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.widget.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyCtrlT:
		return m.widget.Toggle()
	case tea.KeyEsc:
		m.widget.Close()
		return nil
	}

	if !m.widget.IsOpen() {
		switch msg.String() {
		case "?":
			return m.widget.Toggle()
		case "q":
			return tea.Quit
		}
		return nil
	}

	return m.widget.Update(msg)
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	chat := m.widget.View()
	chatHeight := lipgloss.Height(chat)
	bodyHeight := max(m.height-chatHeight, 0)

	body := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.viewBody())
	corner := lipgloss.PlaceHorizontal(m.width, lipgloss.Right, chat)

	return lipgloss.JoinVertical(lipgloss.Left, body, corner)
}

func (m *Model) viewBody() string {
	var sb strings.Builder
	sb.WriteString(styles.PageTitleStyle.Render(format.Truncate(m.cfg.Title, m.width)))
	sb.WriteString("\n\n")

	status := "closed"
	if m.widget.IsOpen() {
		status = "open"
	}
	if n := m.widget.Pending(); n > 0 {
		status += fmt.Sprintf(" · %d waiting for a reply", n)
	}
	sb.WriteString(styles.DimStyle.Render("chat: " + status))
	sb.WriteString("\n")
	sb.WriteString(styles.DimStyle.Render(format.Truncate("endpoint: "+m.cfg.Endpoint, m.width)))
	sb.WriteString("\n\n")
	sb.WriteString(helpText())
	return sb.String()
}

// recalcLayout gives the widget the whole screen minus the toggle button
// row; the widget clamps itself to its configured size.
func (m *Model) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	const toggleHeight = 3
	m.widget.SetSize(m.width, m.height-toggleHeight)
	format.InitMarkdownRenderer(m.widget.Width() - 6)
}

func helpText() string {
	return styles.DimStyle.Render(
		"Shortcuts:\n" +
			"  ? / Ctrl+T     Open or close the chat\n" +
			"  Enter          Send message\n" +
			"  PgUp/PgDn      Scroll messages\n" +
			"  Esc            Close the chat\n" +
			"  q              Exit while the chat is closed\n" +
			"  Ctrl+C         Exit",
	)
}
