package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegocalderon71/escape-san-antonio-bot/game"
)

func TestKeyboardEmpty(t *testing.T) {
	_, ok := keyboard(nil)
	assert.False(t, ok)
}

func TestKeyboardConversion(t *testing.T) {
	rows := [][]game.Button{
		{{Label: "Jugar INDIVIDUAL", Data: "mode_individual"}},
		{{Label: "Sí", Data: "restart_yes"}, {Label: "No", Data: "restart_no"}},
	}
	kb, ok := keyboard(rows)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[1], 2)

	btn := kb.InlineKeyboard[0][0]
	assert.Equal(t, "Jugar INDIVIDUAL", btn.Text)
	require.NotNil(t, btn.CallbackData)
	assert.Equal(t, "mode_individual", *btn.CallbackData)
}
