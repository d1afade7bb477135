// Package kind defines the kinds of entries shown in a chat widget transcript.
package kind

// Kind identifies who produced a transcript entry and whether it is final.
type Kind string

const (
	User       Kind = "user"
	Bot        Kind = "bot"
	BotPending Kind = "bot-pending"
)

// Pending reports whether k is the transient placeholder kind.
func (k Kind) Pending() bool {
	return k == BotPending
}

// String returns the underlying string value of the kind.
func (k Kind) String() string {
	return string(k)
}
