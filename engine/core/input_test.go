package core

import (
	"testing"

	"github.com/spaghettifunk/canvasapp/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestInputStateKeys(t *testing.T) {
	s := NewInputState()

	assert.True(t, s.ProcessKey(KEY_SPACE, true))
	// Auto-repeat is not a transition.
	assert.False(t, s.ProcessKey(KEY_SPACE, true))
	assert.True(t, s.IsKeyDown(KEY_SPACE))
	assert.True(t, s.WasKeyUp(KEY_SPACE))

	s.Update()
	assert.True(t, s.WasKeyDown(KEY_SPACE))

	assert.True(t, s.ProcessKey(KEY_SPACE, false))
	assert.True(t, s.IsKeyUp(KEY_SPACE))
	assert.True(t, s.WasKeyDown(KEY_SPACE))

	assert.False(t, s.ProcessKey(KEYS_MAX_KEYS, true))
	assert.False(t, s.IsKeyDown(KEYS_MAX_KEYS))
	assert.False(t, s.WasKeyDown(KEYS_MAX_KEYS))
}

func TestInputStateButtons(t *testing.T) {
	s := NewInputState()

	assert.True(t, s.ProcessButton(BUTTON_LEFT, true))
	assert.False(t, s.ProcessButton(BUTTON_LEFT, true))
	assert.True(t, s.IsButtonDown(BUTTON_LEFT))
	assert.True(t, s.IsButtonUp(BUTTON_RIGHT))

	s.Update()
	assert.True(t, s.WasButtonDown(BUTTON_LEFT))
	assert.True(t, s.WasButtonUp(BUTTON_RIGHT))

	assert.False(t, s.ProcessButton(-1, true))
	assert.False(t, s.ProcessButton(BUTTON_MAX_BUTTONS, true))
	assert.False(t, s.IsButtonDown(-1))
}

func TestInputStateMouse(t *testing.T) {
	s := NewInputState()

	assert.True(t, s.ProcessMouseMove(math.NewVec2(4, 5)))
	assert.False(t, s.ProcessMouseMove(math.NewVec2(4, 5)))
	assert.Equal(t, math.NewVec2(4, 5), s.MousePosition())
	assert.Equal(t, math.NewVec2Zero(), s.PreviousMousePosition())

	s.Update()
	assert.Equal(t, math.NewVec2(4, 5), s.PreviousMousePosition())

	s.ProcessKey(KEY_A, true)
	s.Reset()
	assert.Equal(t, InputState{}, *s)
}
