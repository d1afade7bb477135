package msgs

import "time"

// ExchangeDoneMsg is returned by the tea.Cmd that runs one exchange with the
// chatbot endpoint. PendingID names the placeholder the exchange owns.
type ExchangeDoneMsg struct {
	PendingID string
	Reply     string
	Err       error
	Duration  time.Duration
}
