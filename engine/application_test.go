package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/math"
	"github.com/spaghettifunk/canvasapp/engine/platform"
	"github.com/spaghettifunk/canvasapp/engine/platform/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	elapsedMsec float64
	intervalSec float64
}

type recorder struct {
	BaseHandler

	frames  []frame
	renders int
	mouse   []core.CanvasMouseEvent
	keys    []core.CanvasKeyboardEvent

	updateErr error
	renderErr error
	onUpdate  func()
}

func (r *recorder) Update(elapsedMsec, intervalSec float64) error {
	r.frames = append(r.frames, frame{elapsedMsec, intervalSec})
	if r.onUpdate != nil {
		r.onUpdate()
	}
	return r.updateErr
}

func (r *recorder) Render() error {
	r.renders++
	return r.renderErr
}

func (r *recorder) DispatchMouseDown(evt core.CanvasMouseEvent)   { r.mouse = append(r.mouse, evt) }
func (r *recorder) DispatchMouseUp(evt core.CanvasMouseEvent)     { r.mouse = append(r.mouse, evt) }
func (r *recorder) DispatchMouseMove(evt core.CanvasMouseEvent)   { r.mouse = append(r.mouse, evt) }
func (r *recorder) DispatchMouseDrag(evt core.CanvasMouseEvent)   { r.mouse = append(r.mouse, evt) }
func (r *recorder) DispatchKeyPress(evt core.CanvasKeyboardEvent) { r.keys = append(r.keys, evt) }
func (r *recorder) DispatchKeyDown(evt core.CanvasKeyboardEvent)  { r.keys = append(r.keys, evt) }
func (r *recorder) DispatchKeyUp(evt core.CanvasKeyboardEvent)    { r.keys = append(r.keys, evt) }

func (r *recorder) mouseTypes() []core.InputEventType {
	types := make([]core.InputEventType, 0, len(r.mouse))
	for _, e := range r.mouse {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	canvas  *headless.Canvas
	window  *headless.Window
	handler *recorder
	app     *Application
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		canvas:  headless.NewCanvas(200, 100),
		window:  headless.NewWindow(),
		handler: &recorder{},
	}
	app, err := NewApplication(f.canvas, f.window, f.handler, opts...)
	require.NoError(t, err)
	f.app = app
	return f
}

func (f *fixture) mouse(t *testing.T, eventType string, x, y float64) {
	t.Helper()
	require.NoError(t, f.canvas.Dispatch(&platform.MouseEvent{
		EventType:   eventType,
		EventTarget: f.canvas,
		ClientX:     x,
		ClientY:     y,
	}))
}

func (f *fixture) key(t *testing.T, eventType, key string, code core.KeyCode) {
	t.Helper()
	require.NoError(t, f.window.Dispatch(&platform.KeyboardEvent{
		EventType:   eventType,
		EventTarget: f.window,
		Key:         key,
		KeyCode:     int(code),
	}))
}

func TestNewApplication(t *testing.T) {
	t.Run("nil canvas", func(t *testing.T) {
		app, err := NewApplication(nil, headless.NewWindow(), nil)
		assert.Nil(t, app)
		assert.ErrorIs(t, err, core.ErrNilCanvas)
	})

	t.Run("nil window", func(t *testing.T) {
		app, err := NewApplication(headless.NewCanvas(1, 1), nil, nil)
		assert.Nil(t, app)
		assert.Error(t, err)
	})

	t.Run("nil handler", func(t *testing.T) {
		app, err := NewApplication(headless.NewCanvas(1, 1), headless.NewWindow(), nil)
		require.NoError(t, err)
		assert.Equal(t, BaseHandler{}, app.Handler())
	})

	t.Run("initial state", func(t *testing.T) {
		f := newFixture(t)
		assert.False(t, f.app.IsRunning())
		assert.False(t, f.app.IsMouseDown())
		assert.False(t, f.app.SupportMouseMove)
		assert.Equal(t, NoRequest, f.app.requestID)
		assert.Equal(t, core.NoTime, f.app.clock.StartTime())
		assert.Equal(t, core.NoTime, f.app.clock.LastTime())
		assert.NotNil(t, f.app.Metrics())

		_, err := uuid.Parse(f.app.ID())
		assert.NoError(t, err)
	})

	t.Run("listeners", func(t *testing.T) {
		f := newFixture(t)
		for _, typ := range []string{platform.EventMouseDown, platform.EventMouseUp, platform.EventMouseMove} {
			assert.Equal(t, 1, f.canvas.ListenerCount(typ), typ)
			assert.Equal(t, 0, f.window.ListenerCount(typ), typ)
		}
		for _, typ := range []string{platform.EventKeyDown, platform.EventKeyUp, platform.EventKeyPress} {
			assert.Equal(t, 1, f.window.ListenerCount(typ), typ)
			assert.Equal(t, 0, f.canvas.ListenerCount(typ), typ)
		}
	})

	t.Run("unique ids", func(t *testing.T) {
		a := newFixture(t)
		b := newFixture(t)
		assert.NotEqual(t, a.app.ID(), b.app.ID())
	})
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)

	f.app.Start()
	assert.True(t, f.app.IsRunning())
	assert.Equal(t, 1, f.window.Pending())
	assert.NotEqual(t, NoRequest, f.app.requestID)

	// Starting twice must not schedule a second loop.
	f.app.Start()
	assert.Equal(t, 1, f.window.Pending())

	f.app.Stop()
	assert.False(t, f.app.IsRunning())
	assert.Equal(t, 0, f.window.Pending())
	assert.Equal(t, NoRequest, f.app.requestID)
	assert.Equal(t, core.NoTime, f.app.clock.StartTime())

	f.app.Stop()
	assert.False(t, f.app.IsRunning())
	assert.Equal(t, 0, f.window.Pending())
}

func TestFrameTiming(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	f.window.Frame(1000)
	f.window.Frame(1016)
	f.window.Frame(1048)

	require.Len(t, f.handler.frames, 3)
	assert.Equal(t, frame{0, 0}, f.handler.frames[0])
	assert.Equal(t, 16.0, f.handler.frames[1].elapsedMsec)
	assert.InDelta(t, 0.016, f.handler.frames[1].intervalSec, 1e-9)
	assert.Equal(t, 48.0, f.handler.frames[2].elapsedMsec)
	assert.InDelta(t, 0.032, f.handler.frames[2].intervalSec, 1e-9)
	assert.Equal(t, 3, f.handler.renders)
	assert.Equal(t, 1, f.window.Pending())

	// A restart begins a fresh timeline.
	f.app.Stop()
	f.app.Start()
	f.window.Frame(5000)
	require.Len(t, f.handler.frames, 4)
	assert.Equal(t, frame{0, 0}, f.handler.frames[3])
}

func TestStopDropsQueuedFrame(t *testing.T) {
	f := newFixture(t)
	f.app.Start()
	cb := f.app.frameFn
	f.app.Stop()

	// A host that already queued the callback still calls it.
	cb(100)
	assert.Empty(t, f.handler.frames)
	assert.Equal(t, 0, f.window.Pending())
}

func TestHookErrorsStopLoop(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *recorder)
		renders int
	}{
		{
			name:    "update",
			setup:   func(r *recorder) { r.updateErr = errors.New("boom") },
			renders: 0,
		},
		{
			name:    "render",
			setup:   func(r *recorder) { r.renderErr = errors.New("boom") },
			renders: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.handler)
			f.app.Start()
			f.window.Frame(10)

			assert.False(t, f.app.IsRunning())
			assert.Equal(t, 0, f.window.Pending())
			assert.Equal(t, tt.renders, f.handler.renders)
		})
	}
}

func TestStopFromUpdate(t *testing.T) {
	f := newFixture(t)
	f.handler.onUpdate = f.app.Stop
	f.app.Start()
	f.window.Frame(10)

	assert.False(t, f.app.IsRunning())
	assert.Equal(t, 0, f.window.Pending())
	assert.Equal(t, 1, f.handler.renders)
}

func TestViewportToCanvasCoordinate(t *testing.T) {
	f := newFixture(t)
	f.canvas.Rect = platform.Rect{Left: 10, Top: 20, Width: 200, Height: 100}
	f.window.Style = platform.ComputedStyle{
		BorderLeftWidth: "2px",
		BorderTopWidth:  "4px",
		PaddingLeft:     "3px",
		PaddingTop:      "1px",
	}

	f.mouse(t, platform.EventMouseDown, 50, 60)

	require.Len(t, f.handler.mouse, 1)
	evt := f.handler.mouse[0]
	assert.Equal(t, math.NewVec2(35, 35), evt.CanvasPosition)
	assert.Equal(t, math.NewVec2Zero(), evt.LocalPosition)
	assert.Equal(t, core.MouseDown, evt.Type)
}

func TestMouseButtons(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.canvas.Dispatch(&platform.MouseEvent{
		EventType:   platform.EventMouseDown,
		EventTarget: f.canvas,
		ClientX:     5,
		ClientY:     6,
		Button:      int16(core.BUTTON_RIGHT),
		ShiftKey:    true,
	}))
	assert.True(t, f.app.IsMouseDown())
	assert.True(t, f.app.Input().IsButtonDown(core.BUTTON_RIGHT))

	require.Len(t, f.handler.mouse, 1)
	assert.Equal(t, core.BUTTON_RIGHT, f.handler.mouse[0].Button)
	assert.True(t, f.handler.mouse[0].ShiftKey)
	assert.False(t, f.handler.mouse[0].AltKey)

	require.NoError(t, f.canvas.Dispatch(&platform.MouseEvent{
		EventType:   platform.EventMouseUp,
		EventTarget: f.canvas,
		Button:      int16(core.BUTTON_RIGHT),
	}))
	assert.False(t, f.app.IsMouseDown())
	assert.False(t, f.app.Input().IsButtonDown(core.BUTTON_RIGHT))
	assert.Equal(t, []core.InputEventType{core.MouseDown, core.MouseUp}, f.handler.mouseTypes())
}

func TestMouseMove(t *testing.T) {
	tests := []struct {
		name             string
		supportMouseMove bool
		down             bool
		want             []core.InputEventType
	}{
		{name: "idle", want: []core.InputEventType{}},
		{name: "drag", down: true, want: []core.InputEventType{core.MouseDrag}},
		{name: "move", supportMouseMove: true, want: []core.InputEventType{core.MouseMove}},
		{name: "move and drag", supportMouseMove: true, down: true, want: []core.InputEventType{core.MouseMove, core.MouseDrag}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.app.SupportMouseMove = tt.supportMouseMove
			if tt.down {
				f.mouse(t, platform.EventMouseDown, 0, 0)
				f.handler.mouse = nil
			}

			f.mouse(t, platform.EventMouseMove, 7, 8)

			assert.Equal(t, tt.want, f.handler.mouseTypes())
			for _, e := range f.handler.mouse {
				assert.Equal(t, math.NewVec2(7, 8), e.CanvasPosition)
			}
		})
	}
}

func TestKeyboard(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.window.Dispatch(&platform.KeyboardEvent{
		EventType:   platform.EventKeyDown,
		EventTarget: f.window,
		Key:         "a",
		KeyCode:     int(core.KEY_A),
		Repeat:      true,
		CtrlKey:     true,
	}))
	f.key(t, platform.EventKeyPress, "a", core.KEY_A)
	f.key(t, platform.EventKeyUp, "a", core.KEY_A)

	require.Len(t, f.handler.keys, 3)
	down := f.handler.keys[0]
	assert.Equal(t, core.KeyDown, down.Type)
	assert.Equal(t, "a", down.Key)
	assert.Equal(t, core.KEY_A, down.KeyCode)
	assert.True(t, down.Repeat)
	assert.True(t, down.CtrlKey)
	assert.False(t, down.AltKey)
	assert.Equal(t, core.KeyPress, f.handler.keys[1].Type)
	assert.Equal(t, core.KeyUp, f.handler.keys[2].Type)
	assert.False(t, f.app.Input().IsKeyDown(core.KEY_A))

	// Keyboard events on the canvas are not listened for.
	require.NoError(t, f.canvas.Dispatch(&platform.KeyboardEvent{EventType: platform.EventKeyDown, EventTarget: f.canvas}))
	assert.Len(t, f.handler.keys, 3)
}

func TestInputStateRollsPerFrame(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	f.key(t, platform.EventKeyDown, "w", core.KEY_W)
	assert.True(t, f.app.Input().IsKeyDown(core.KEY_W))
	assert.False(t, f.app.Input().WasKeyDown(core.KEY_W))

	f.window.Frame(0)
	assert.True(t, f.app.Input().WasKeyDown(core.KEY_W))

	f.key(t, platform.EventKeyUp, "w", core.KEY_W)
	assert.True(t, f.app.Input().IsKeyUp(core.KEY_W))
	assert.True(t, f.app.Input().WasKeyDown(core.KEY_W))

	f.window.Frame(16)
	assert.True(t, f.app.Input().WasKeyUp(core.KEY_W))
}

type unknownEvent struct {
	typ string
}

func (e unknownEvent) Type() string             { return e.typ }
func (e unknownEvent) Target() platform.Element { return nil }

func TestHandleEventErrors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		f := newFixture(t)
		err := f.app.HandleEvent(&platform.MouseEvent{EventType: platform.EventMouseDown})
		assert.ErrorIs(t, err, core.ErrNilEventTarget)
		assert.Equal(t, []string{core.ErrNilEventTarget.Error()}, f.window.Alerts)
		assert.Empty(t, f.handler.mouse)
	})

	t.Run("nil canvas", func(t *testing.T) {
		f := newFixture(t)
		f.app.canvas = nil
		err := f.app.HandleEvent(&platform.MouseEvent{EventType: platform.EventMouseUp, EventTarget: f.canvas})
		assert.ErrorIs(t, err, core.ErrNilCanvas)
		assert.Equal(t, []string{core.ErrNilCanvas.Error()}, f.window.Alerts)
	})

	t.Run("wrong event shape", func(t *testing.T) {
		f := newFixture(t)
		err := f.app.HandleEvent(unknownEvent{typ: platform.EventMouseDown})
		assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
		err = f.app.HandleEvent(unknownEvent{typ: platform.EventKeyUp})
		assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newFixture(t)
		assert.NoError(t, f.app.HandleEvent(unknownEvent{typ: "wheel"}))
		assert.Empty(t, f.handler.mouse)
		assert.Empty(t, f.handler.keys)
		assert.Empty(t, f.window.Alerts)
	})
}

func TestEventBusFiresAfterHook(t *testing.T) {
	f := newFixture(t)

	var seen []core.InputEvent
	hookCalls := 0
	ok := f.app.Events().Register(core.MouseDown, t, func(event core.InputEvent, listener interface{}) bool {
		hookCalls = len(f.handler.mouse)
		seen = append(seen, event)
		return true
	})
	require.True(t, ok)

	f.mouse(t, platform.EventMouseDown, 3, 4)

	require.Len(t, seen, 1)
	assert.Equal(t, 1, hookCalls)
	me, isMouse := seen[0].(core.CanvasMouseEvent)
	require.True(t, isMouse)
	assert.Equal(t, math.NewVec2(3, 4), me.CanvasPosition)
}

func TestConfigUpdates(t *testing.T) {
	defer core.SetLogLevel(core.GetLogLevel())

	updates := make(chan *ApplicationConfig, 1)
	f := newFixture(t, WithConfigUpdates(updates))

	cfg := DefaultConfig()
	cfg.SupportMouseMove = true
	cfg.EnableMetrics = false
	cfg.LogLevel = "warn"
	updates <- cfg

	// Pending configs are applied on the loop, not on send.
	assert.False(t, f.app.SupportMouseMove)

	f.app.Start()
	f.window.Frame(0)

	assert.True(t, f.app.SupportMouseMove)
	assert.Nil(t, f.app.Metrics())
	assert.Equal(t, core.WarnLevel, core.GetLogLevel())

	close(updates)
	f.window.Frame(16)
	assert.Nil(t, f.app.configs)
	assert.True(t, f.app.IsRunning())
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.app.Start()
	f.window.Run(5, 20)

	require.NotNil(t, f.app.Metrics())
	assert.Equal(t, uint64(5), f.app.Metrics().TotalFrames())

	f = newFixture(t, WithMetrics(false))
	f.app.Start()
	f.window.Run(5, 20)
	assert.Nil(t, f.app.Metrics())
	assert.Len(t, f.handler.frames, 5)
}

type presentingCanvas struct {
	*headless.Canvas
	presents int
}

func (c *presentingCanvas) Present() error {
	c.presents++
	return nil
}

func TestPresentAfterRender(t *testing.T) {
	canvas := &presentingCanvas{Canvas: headless.NewCanvas(10, 10)}
	window := headless.NewWindow()
	app, err := NewApplication(canvas, window, nil)
	require.NoError(t, err)

	app.Start()
	window.Run(3, 16)
	assert.Equal(t, 3, canvas.presents)
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	f.app.Events().Register(core.KeyDown, t, func(core.InputEvent, interface{}) bool { return true })
	f.app.Start()

	f.app.Close()

	assert.False(t, f.app.IsRunning())
	assert.Equal(t, 0, f.window.Pending())
	for _, typ := range []string{platform.EventMouseDown, platform.EventMouseUp, platform.EventMouseMove} {
		assert.Equal(t, 0, f.canvas.ListenerCount(typ), typ)
	}
	for _, typ := range []string{platform.EventKeyDown, platform.EventKeyUp, platform.EventKeyPress} {
		assert.Equal(t, 0, f.window.ListenerCount(typ), typ)
	}

	f.app.Start()
	assert.False(t, f.app.IsRunning())
	f.app.Close()
}
