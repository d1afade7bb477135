// Package message provides the transcript entry type used by the chat widget.
package message

import (
	"strings"

	"github.com/google/uuid"

	"github.com/germanamz/chatwidget/pkg/chats/kind"
)

// Message is a single transcript entry. Text is stored exactly as given;
// line-break markers are interpreted at render time by Lines.
type Message struct {
	ID   string
	Kind kind.Kind
	Text string
}

// New creates a Message with a fresh identity.
func New(k kind.Kind, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Kind: k,
		Text: text,
	}
}

// Lines splits the text on its line-break markers. "\r\n" counts as a
// single marker. No other transformation is applied.
func (m Message) Lines() []string {
	text := strings.ReplaceAll(m.Text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// IsPending reports whether the message is a placeholder awaiting a reply.
func (m Message) IsPending() bool {
	return m.Kind.Pending()
}
