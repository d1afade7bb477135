package styles

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the chat widget.
var (
	// Panel chrome.
	PanelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")). // blue
			Padding(0, 1)
	HeaderTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	HeaderHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	SeparatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Toggle button.
	ToggleStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
	ToggleActiveStyle = ToggleStyle.BorderForeground(lipgloss.Color("6")) // cyan

	// Message styles.
	UserPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	UserTextStyle   = lipgloss.NewStyle()
	BotPrefixStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	BotTextStyle    = lipgloss.NewStyle()
	PendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Page styles.
	PageTitleStyle = lipgloss.NewStyle().Bold(true)
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Message prefixes, equal in display width so continuation lines align.
const (
	UserPrefix = "› "
	BotPrefix  = "● "
	Indent     = "  "
)
