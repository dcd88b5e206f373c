package testbed

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/canvasapp/engine"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/math"
	"github.com/spaghettifunk/canvasapp/engine/platform"
	"github.com/spaghettifunk/canvasapp/engine/platform/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApplication(t *testing.T) (*TestApplication, *headless.Canvas, *headless.Window) {
	t.Helper()
	canvas := headless.NewCanvas(120, 80)
	window := headless.NewWindow()
	ta, err := NewTestApplication(canvas, window, engine.DefaultConfig())
	require.NoError(t, err)
	return ta, canvas, window
}

func pressKey(t *testing.T, window *headless.Window, code core.KeyCode, key string) {
	t.Helper()
	require.NoError(t, window.Dispatch(&platform.KeyboardEvent{
		EventType:   platform.EventKeyDown,
		EventTarget: window,
		Key:         key,
		KeyCode:     int(code),
	}))
	require.NoError(t, window.Dispatch(&platform.KeyboardEvent{
		EventType:   platform.EventKeyUp,
		EventTarget: window,
		Key:         key,
		KeyCode:     int(code),
	}))
}

func TestControlKeys(t *testing.T) {
	ta, _, window := newTestApplication(t)

	pressKey(t, window, core.KEY_S, "s")
	assert.True(t, ta.App.IsRunning())

	window.Run(3, 16)
	assert.Equal(t, 32.0, ta.elapsedMsec)

	pressKey(t, window, core.KEY_P, "p")
	assert.False(t, ta.App.IsRunning())
	assert.Equal(t, 0, window.Pending())

	// Auto-repeat does not toggle the loop.
	require.NoError(t, window.Dispatch(&platform.KeyboardEvent{
		EventType:   platform.EventKeyDown,
		EventTarget: window,
		Key:         "s",
		KeyCode:     int(core.KEY_S),
		Repeat:      true,
	}))
	assert.False(t, ta.App.IsRunning())
}

func TestPointerTracking(t *testing.T) {
	ta, canvas, _ := newTestApplication(t)

	mouse := func(eventType string, x, y float64) {
		require.NoError(t, canvas.Dispatch(&platform.MouseEvent{
			EventType:   eventType,
			EventTarget: canvas,
			ClientX:     x,
			ClientY:     y,
		}))
	}

	mouse(platform.EventMouseDown, 10, 10)
	mouse(platform.EventMouseMove, 20, 15)
	mouse(platform.EventMouseMove, 30, 20)
	mouse(platform.EventMouseUp, 30, 20)

	assert.Equal(t, math.NewVec2(30, 20), ta.lastPosition)
	assert.Equal(t, []math.Vec2{math.NewVec2(20, 15), math.NewVec2(30, 20)}, trailOf(ta))

	// A new press starts a new trail.
	mouse(platform.EventMouseDown, 5, 5)
	assert.True(t, ta.trail.IsEmpty())
}

func trailOf(ta *TestApplication) []math.Vec2 {
	var points []math.Vec2
	ta.trail.Each(func(p math.Vec2) {
		points = append(points, p)
	})
	return points
}

func TestTrailIsBounded(t *testing.T) {
	ta, canvas, _ := newTestApplication(t)

	require.NoError(t, canvas.Dispatch(&platform.MouseEvent{
		EventType:   platform.EventMouseDown,
		EventTarget: canvas,
	}))
	for i := 0; i < maxTrail+10; i++ {
		require.NoError(t, canvas.Dispatch(&platform.MouseEvent{
			EventType:   platform.EventMouseMove,
			EventTarget: canvas,
			ClientX:     float64(i),
			ClientY:     1,
		}))
	}

	points := trailOf(ta)
	require.Len(t, points, maxTrail)
	// The oldest positions were dropped.
	assert.Equal(t, math.NewVec2(10, 1), points[0])
	assert.Equal(t, math.NewVec2(float64(maxTrail+9), 1), points[maxTrail-1])
	require.NoError(t, ta.Render())
}

func TestRenderDrawsCursor(t *testing.T) {
	ta, canvas, _ := newTestApplication(t)
	require.NotNil(t, ta.App.Context2D)

	require.NoError(t, canvas.Dispatch(&platform.MouseEvent{
		EventType:   platform.EventMouseDown,
		EventTarget: canvas,
		ClientX:     90,
		ClientY:     70,
	}))
	require.NoError(t, ta.Update(0, 0))
	require.NoError(t, ta.Render())

	img := ta.App.Context2D.Image()
	r, g, b, _ := img.At(90, 70).RGBA()
	// Cursor dot is orange over the dark background.
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)
}

func TestRenderWithoutContext(t *testing.T) {
	canvas := headless.NewCanvas(10, 10)
	canvas.SetContext(platform.ContextID2D, nil)
	ta, err := NewTestApplication(canvas, headless.NewWindow(), engine.DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, ta.Render())
}
