package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Pending(t *testing.T) {
	assert.True(t, BotPending.Pending())
	assert.False(t, Bot.Pending())
	assert.False(t, User.Pending())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bot-pending", BotPending.String())
}
