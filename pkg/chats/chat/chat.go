// Package chat provides the ordered transcript behind a chat widget.
package chat

import (
	"slices"

	"github.com/germanamz/chatwidget/pkg/chats/message"
)

// Chat is an append-only transcript. The only removal it supports is of a
// pending placeholder, by identity. The zero value is ready to use.
// Chat is not safe for concurrent use; callers must synchronize externally.
type Chat struct {
	messages []message.Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the end of the transcript.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// Remove deletes the pending placeholder with the given ID and reports
// whether one was found. Non-pending messages are never removed.
func (c *Chat) Remove(id string) bool {
	i := slices.IndexFunc(c.messages, func(m message.Message) bool {
		return m.ID == id && m.IsPending()
	})
	if i < 0 {
		return false
	}
	c.messages = slices.Delete(c.messages, i, i+1)
	return true
}

// Messages returns a copy of all messages in the transcript.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Each iterates over messages, calling fn for each one. If fn returns false,
// iteration stops early.
func (c *Chat) Each(fn func(int, message.Message) bool) {
	for i, m := range c.messages {
		if !fn(i, m) {
			return
		}
	}
}

// Pending returns the number of placeholders still awaiting a reply.
func (c *Chat) Pending() int {
	n := 0
	for _, m := range c.messages {
		if m.IsPending() {
			n++
		}
	}
	return n
}
