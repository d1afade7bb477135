// Package widget implements the chat panel: a toggleable box holding a
// transcript and an input line that relays each submitted message to a
// chatbot endpoint and shows the reply.
package widget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/msgs"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/styles"
	"github.com/germanamz/chatwidget/pkg/chatbot"
	"github.com/germanamz/chatwidget/pkg/chats/chat"
	"github.com/germanamz/chatwidget/pkg/chats/kind"
	"github.com/germanamz/chatwidget/pkg/chats/message"
)

// Responder answers a single user message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Config holds the texts and dimensions of the panel.
type Config struct {
	Title          string
	ToggleLabel    string
	Greeting       string
	Placeholder    string
	PendingText    string
	NoResponseText string
	ErrorText      string
	Width          int
	Height         int
	RenderMarkdown bool
	Logger         zerolog.Logger
}

// Rows taken by everything in the panel except the message list: the border
// (2), the header (1), two separators (2) and the input (1).
const chromeHeight = 6

// Model is the chat widget. It owns its child components; callers interact
// with it only through its methods.
type Model struct {
	ctx       context.Context
	cfg       Config
	responder Responder
	log       zerolog.Logger

	transcript *chat.Chat
	list       viewport.Model
	input      textinput.Model
	spinner    spinner.Model

	open          bool
	width, height int
}

// New creates a closed widget whose transcript holds the greeting. ctx bounds
// every exchange the widget starts.
func New(ctx context.Context, cfg Config, r Responder) *Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PendingStyle

	m := &Model{
		ctx:        ctx,
		cfg:        cfg,
		responder:  r,
		log:        cfg.Logger,
		transcript: chat.New(),
		list:       viewport.New(0, 0),
		input:      ti,
		spinner:    sp,
	}
	m.SetSize(cfg.Width, cfg.Height)

	if cfg.Greeting != "" {
		m.AddMessage(cfg.Greeting, kind.Bot)
	}

	return m
}

// IsOpen reports whether the panel is visible.
func (m *Model) IsOpen() bool {
	return m.open
}

// Messages returns a copy of the transcript.
func (m *Model) Messages() []message.Message {
	return m.transcript.Messages()
}

// Pending returns the number of exchanges still awaiting a reply.
func (m *Model) Pending() int {
	return m.transcript.Pending()
}

// Input returns the current value of the input field.
func (m *Model) Input() string {
	return m.input.Value()
}

// SetInput replaces the value of the input field.
func (m *Model) SetInput(s string) {
	m.input.SetValue(s)
}

// Focused reports whether the input field has focus.
func (m *Model) Focused() bool {
	return m.input.Focused()
}

// ScrolledToBottom reports whether the newest message is in view.
func (m *Model) ScrolledToBottom() bool {
	return m.list.AtBottom()
}

// Toggle opens a closed panel and closes an open one. Opening moves focus
// into the input field.
func (m *Model) Toggle() tea.Cmd {
	if m.open {
		m.Close()
		return nil
	}
	m.open = true
	m.log.Debug().Msg("chat panel opened")
	return m.input.Focus()
}

// Close hides the panel. Closing an already closed panel does nothing.
// Pending exchanges keep running.
func (m *Model) Close() {
	if m.open {
		m.log.Debug().Msg("chat panel closed")
	}
	m.open = false
	m.input.Blur()
}

// SendMessage submits the trimmed input. Whitespace-only input is ignored.
// The input is cleared before the exchange starts.
func (m *Model) SendMessage() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	m.AddMessage(text, kind.User)
	m.input.SetValue("")

	return m.GetAIResponse(text)
}

// GetAIResponse adds a placeholder for text and returns the command running
// the exchange. The placeholder is removed when the exchange resolves.
func (m *Model) GetAIResponse(text string) tea.Cmd {
	idle := m.transcript.Pending() == 0
	pending := m.AddMessage(m.cfg.PendingText, kind.BotPending)

	ctx, r, id := m.ctx, m.responder, pending.ID
	exchange := func() tea.Msg {
		start := time.Now()
		reply, err := r.Respond(ctx, text)
		return msgs.ExchangeDoneMsg{
			PendingID: id,
			Reply:     reply,
			Err:       err,
			Duration:  time.Since(start),
		}
	}

	if idle {
		return tea.Batch(exchange, m.spinner.Tick)
	}
	return exchange
}

// AddMessage appends text to the transcript and scrolls the message list to
// the newest entry.
func (m *Model) AddMessage(text string, k kind.Kind) message.Message {
	msg := message.New(k, text)
	m.transcript.Append(msg)
	m.log.Debug().Str("id", msg.ID).Str("kind", k.String()).Msg("message added")
	m.refresh()
	m.list.GotoBottom()
	return msg
}

// resolve replaces the placeholder of a finished exchange with its reply or
// with the matching fallback text.
func (m *Model) resolve(msg msgs.ExchangeDoneMsg) {
	if !m.transcript.Remove(msg.PendingID) {
		m.log.Warn().Str("pending_id", msg.PendingID).Msg("exchange resolved without a placeholder")
	}

	switch {
	case msg.Err == nil:
		m.log.Debug().Dur("elapsed", msg.Duration).Msg("exchange answered")
		m.AddMessage(msg.Reply, kind.Bot)
	case errors.Is(msg.Err, chatbot.ErrNoResponse):
		m.log.Debug().Dur("elapsed", msg.Duration).Msg("exchange returned no response")
		m.AddMessage(m.cfg.NoResponseText, kind.Bot)
	default:
		m.log.Debug().Err(msg.Err).Dur("elapsed", msg.Duration).Msg("exchange failed")
		m.AddMessage(m.cfg.ErrorText, kind.Bot)
	}
}

// Update handles key presses while the panel is open, exchange results and
// spinner ticks.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.ExchangeDoneMsg:
		m.resolve(msg)
		return nil

	case spinner.TickMsg:
		if m.transcript.Pending() == 0 {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		atBottom := m.list.AtBottom()
		m.refresh()
		if atBottom {
			m.list.GotoBottom()
		}
		return cmd

	case tea.KeyMsg:
		if !m.open {
			return nil
		}
		return m.handleKey(msg)
	}

	if !m.open {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.SendMessage()
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// SetSize sets the outer panel dimensions, clamped to the configured size.
func (m *Model) SetSize(w, h int) {
	m.width = min(max(w, 1), m.cfg.Width)
	m.height = min(max(h, chromeHeight+1), m.cfg.Height)

	inner := m.innerWidth()
	m.list.Width = inner
	m.list.Height = max(m.height-chromeHeight, 1)
	m.input.Width = max(inner-len(m.input.Prompt)-1, 1)

	m.refresh()
	m.list.GotoBottom()
}

// innerWidth is the usable width inside the border and horizontal padding.
func (m *Model) innerWidth() int {
	return max(m.width-4, 1)
}

// Width returns the rendered width of the panel.
func (m *Model) Width() int {
	return m.width
}

func (m *Model) refresh() {
	m.list.SetContent(m.renderTranscript())
}
