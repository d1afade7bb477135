// Package chats provides the transcript model of the chat widget.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/chatwidget/pkg/chats/kind] — entry kinds (user, bot, pending bot)
//   - [github.com/germanamz/chatwidget/pkg/chats/message] — entries with identity and line-break handling
//   - [github.com/germanamz/chatwidget/pkg/chats/chat] — append-only transcript with placeholder removal
//
// No rendering or network code is included — chats is a foundation layer
// that the widget builds on.
package chats
