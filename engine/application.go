package engine

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/math"
	"github.com/spaghettifunk/canvasapp/engine/platform"
)

// NoRequest is the frame handle held while no frame is pending.
const NoRequest = -1

var (
	canvasEvents = []string{platform.EventMouseDown, platform.EventMouseUp, platform.EventMouseMove}
	// Keyboard events never reach a canvas; they are listened for on the window.
	windowEvents = []string{platform.EventKeyDown, platform.EventKeyUp, platform.EventKeyPress}
)

// Application turns native canvas/window events into core input events and
// drives the Update/Render loop of its Handler.
type Application struct {
	id      string
	logger  *log.Logger
	canvas  platform.Canvas
	window  platform.Window
	handler Handler

	// SupportMouseMove makes every pointer move dispatch DispatchMouseMove,
	// not only drags.
	SupportMouseMove bool
	isMouseDown      bool

	isRunning bool
	requestID int
	clock     *core.Clock
	frameFn   platform.FrameCallback

	input   *core.InputState
	events  *core.EventBus
	metrics *core.FrameMetrics
	configs <-chan *ApplicationConfig
	closed  bool
}

type Option func(*Application)

// WithConfig applies the runtime parts of cfg (mouse-move toggle, metrics,
// log level).
func WithConfig(cfg *ApplicationConfig) Option {
	return func(a *Application) {
		a.ApplyConfig(cfg)
	}
}

// WithConfigUpdates makes the loop pick up configs sent on ch at the start
// of the next frame.
func WithConfigUpdates(ch <-chan *ApplicationConfig) Option {
	return func(a *Application) {
		a.configs = ch
	}
}

// WithMetrics toggles frame statistics.
func WithMetrics(enabled bool) Option {
	return func(a *Application) {
		a.setMetrics(enabled)
	}
}

// NewApplication registers the application on canvas (pointer events) and
// window (keyboard events). A nil handler behaves like BaseHandler.
func NewApplication(canvas platform.Canvas, window platform.Window, handler Handler, opts ...Option) (*Application, error) {
	if canvas == nil {
		return nil, core.ErrNilCanvas
	}
	if window == nil {
		return nil, fmt.Errorf("window is nil")
	}
	if handler == nil {
		handler = BaseHandler{}
	}

	id := uuid.New().String()
	a := &Application{
		id:        id,
		logger:    core.Logger("app", id[:8]),
		canvas:    canvas,
		window:    window,
		handler:   handler,
		requestID: NoRequest,
		clock:     core.NewClock(),
		input:     core.NewInputState(),
		events:    core.NewEventBus(),
		metrics:   core.NewFrameMetrics(),
	}
	a.frameFn = a.step

	for _, o := range opts {
		o(a)
	}

	for _, t := range canvasEvents {
		a.canvas.AddEventListener(t, a)
	}
	for _, t := range windowEvents {
		a.window.AddEventListener(t, a)
	}

	a.logger.Debug("application created")
	return a, nil
}

// Start begins the animation loop. It is a no-op while already running.
func (a *Application) Start() {
	if a.isRunning || a.closed {
		return
	}
	a.isRunning = true
	a.clock.Reset()
	a.requestID = a.window.RequestAnimationFrame(a.frameFn)
	a.logger.Info("animation loop started")
}

// Stop cancels the pending frame and resets the timers. It is a no-op while
// idle.
func (a *Application) Stop() {
	if !a.isRunning {
		return
	}
	a.window.CancelAnimationFrame(a.requestID)
	a.requestID = NoRequest
	a.clock.Reset()
	a.isRunning = false
	a.logger.Info("animation loop stopped")
}

// IsRunning reports whether the animation loop is active.
func (a *Application) IsRunning() bool {
	return a.isRunning
}

// Close stops the loop and removes every listener the application added.
func (a *Application) Close() {
	if a.closed {
		return
	}
	a.Stop()
	for _, t := range canvasEvents {
		a.canvas.RemoveEventListener(t, a)
	}
	for _, t := range windowEvents {
		a.window.RemoveEventListener(t, a)
	}
	a.events.Reset()
	a.closed = true
}

// ApplyConfig updates the settings that may change at runtime.
func (a *Application) ApplyConfig(cfg *ApplicationConfig) {
	if cfg == nil {
		return
	}
	a.SupportMouseMove = cfg.SupportMouseMove
	a.setMetrics(cfg.EnableMetrics)
	core.SetLogLevel(cfg.Level())
	a.logger.SetLevel(cfg.Level().CharmLevel())
}

func (a *Application) setMetrics(enabled bool) {
	switch {
	case enabled && a.metrics == nil:
		a.metrics = core.NewFrameMetrics()
	case !enabled:
		a.metrics = nil
	}
}

func (a *Application) step(timestamp float64) {
	// A callback the host had already queued when Stop ran.
	if !a.isRunning {
		return
	}
	a.drainConfigs()

	elapsedMsec, intervalSec := a.clock.Tick(timestamp)
	a.logger.Debugf("elapsedTime = %v intervalSec = %v", elapsedMsec, intervalSec)
	if a.metrics != nil {
		a.metrics.Update(intervalSec)
	}

	if err := a.handler.Update(elapsedMsec, intervalSec); err != nil {
		a.logger.Error("update failed, stopping loop", "err", err)
		a.Stop()
		return
	}
	if err := a.handler.Render(); err != nil {
		a.logger.Error("render failed, stopping loop", "err", err)
		a.Stop()
		return
	}
	if p, ok := a.canvas.(platform.Presenter); ok {
		if err := p.Present(); err != nil {
			a.logger.Warn("present failed", "err", err)
		}
	}

	// Input state is rolled last so hooks see this frame's transitions.
	a.input.Update()

	// Update or Render may have stopped the loop.
	if !a.isRunning {
		return
	}
	a.requestID = a.window.RequestAnimationFrame(a.frameFn)
}

func (a *Application) drainConfigs() {
	if a.configs == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-a.configs:
			if !ok {
				a.configs = nil
				return
			}
			a.ApplyConfig(cfg)
			a.logger.Info("configuration reloaded", "supportMouseMove", a.SupportMouseMove)
		default:
			return
		}
	}
}

// HandleEvent dispatches a native event to the matching Handler hook and
// then to the event bus. Unknown event types are ignored.
func (a *Application) HandleEvent(evt platform.Event) error {
	switch evt.Type() {
	case platform.EventMouseDown:
		a.isMouseDown = true
		return a.dispatchMouse(evt, core.MouseDown, a.handler.DispatchMouseDown)
	case platform.EventMouseUp:
		a.isMouseDown = false
		return a.dispatchMouse(evt, core.MouseUp, a.handler.DispatchMouseUp)
	case platform.EventMouseMove:
		if a.SupportMouseMove {
			if err := a.dispatchMouse(evt, core.MouseMove, a.handler.DispatchMouseMove); err != nil {
				return err
			}
		}
		// Any button held while moving is a drag.
		if a.isMouseDown {
			return a.dispatchMouse(evt, core.MouseDrag, a.handler.DispatchMouseDrag)
		}
	case platform.EventKeyPress:
		return a.dispatchKey(evt, core.KeyPress, a.handler.DispatchKeyPress)
	case platform.EventKeyDown:
		return a.dispatchKey(evt, core.KeyDown, a.handler.DispatchKeyDown)
	case platform.EventKeyUp:
		return a.dispatchKey(evt, core.KeyUp, a.handler.DispatchKeyUp)
	}
	return nil
}

func (a *Application) dispatchMouse(evt platform.Event, typ core.InputEventType, hook func(core.CanvasMouseEvent)) error {
	me, err := a.toCanvasMouseEvent(evt, typ)
	if err != nil {
		return err
	}
	a.input.ProcessMouseMove(me.CanvasPosition)
	switch typ {
	case core.MouseDown:
		a.input.ProcessButton(me.Button, true)
	case core.MouseUp:
		a.input.ProcessButton(me.Button, false)
	}
	hook(me)
	a.events.Fire(me)
	return nil
}

func (a *Application) dispatchKey(evt platform.Event, typ core.InputEventType, hook func(core.CanvasKeyboardEvent)) error {
	ke, err := a.toCanvasKeyboardEvent(evt, typ)
	if err != nil {
		return err
	}
	switch typ {
	case core.KeyDown:
		a.input.ProcessKey(ke.KeyCode, true)
	case core.KeyUp:
		a.input.ProcessKey(ke.KeyCode, false)
	}
	hook(ke)
	a.events.Fire(ke)
	return nil
}

func (a *Application) toCanvasMouseEvent(evt platform.Event, typ core.InputEventType) (core.CanvasMouseEvent, error) {
	me, ok := evt.(*platform.MouseEvent)
	if !ok {
		return core.CanvasMouseEvent{}, fmt.Errorf("%w: %T for `%s`", core.ErrUnsupportedEvent, evt, evt.Type())
	}
	pos, err := a.viewportToCanvasCoordinate(me)
	if err != nil {
		return core.CanvasMouseEvent{}, err
	}
	return core.NewCanvasMouseEvent(typ, pos, core.Button(me.Button), me.AltKey, me.CtrlKey, me.ShiftKey), nil
}

func (a *Application) toCanvasKeyboardEvent(evt platform.Event, typ core.InputEventType) (core.CanvasKeyboardEvent, error) {
	ke, ok := evt.(*platform.KeyboardEvent)
	if !ok {
		return core.CanvasKeyboardEvent{}, fmt.Errorf("%w: %T for `%s`", core.ErrUnsupportedEvent, evt, evt.Type())
	}
	return core.NewCanvasKeyboardEvent(typ, ke.Key, core.KeyCode(ke.KeyCode), ke.Repeat, ke.AltKey, ke.CtrlKey, ke.ShiftKey), nil
}

// viewportToCanvasCoordinate maps client coordinates into the canvas
// content box: client - rect origin - border - padding.
func (a *Application) viewportToCanvasCoordinate(evt *platform.MouseEvent) (math.Vec2, error) {
	if a.canvas == nil {
		a.window.Alert(core.ErrNilCanvas.Error())
		return math.Vec2{}, core.ErrNilCanvas
	}
	rect := a.canvas.BoundingClientRect()
	isDown := evt.EventType == platform.EventMouseDown
	if isDown {
		a.logger.Debug("boundingClientRect", "left", rect.Left, "top", rect.Top, "width", rect.Width, "height", rect.Height)
		a.logger.Debug("client", "clientX", evt.ClientX, "clientY", evt.ClientY)
	}

	target := evt.Target()
	if target == nil {
		a.window.Alert(core.ErrNilEventTarget.Error())
		return math.Vec2{}, core.ErrNilEventTarget
	}
	decl := a.window.GetComputedStyle(target)
	borderLeftWidth := platform.ParseCSSLength(decl.BorderLeftWidth)
	borderTopWidth := platform.ParseCSSLength(decl.BorderTopWidth)
	paddingLeft := platform.ParseCSSLength(decl.PaddingLeft)
	paddingTop := platform.ParseCSSLength(decl.PaddingTop)

	pos := math.NewVec2(
		evt.ClientX-rect.Left-borderLeftWidth-paddingLeft,
		evt.ClientY-rect.Top-borderTopWidth-paddingTop,
	)
	if isDown {
		a.logger.Debug("border", "left", borderLeftWidth, "top", borderTopWidth)
		a.logger.Debug("padding", "left", paddingLeft, "top", paddingTop)
		a.logger.Debug("canvasPosition", "pos", pos)
	}
	return pos, nil
}

// ID is a unique identifier of this application instance.
func (a *Application) ID() string {
	return a.id
}

func (a *Application) Canvas() platform.Canvas {
	return a.canvas
}

func (a *Application) Window() platform.Window {
	return a.window
}

func (a *Application) Handler() Handler {
	return a.handler
}

// IsMouseDown reports whether a button is currently held over the canvas.
func (a *Application) IsMouseDown() bool {
	return a.isMouseDown
}

// Input exposes key and button state with a one-frame history.
func (a *Application) Input() *core.InputState {
	return a.input
}

// Events is the listener table fired after every Handler hook.
func (a *Application) Events() *core.EventBus {
	return a.events
}

// Metrics returns nil when metrics are disabled.
func (a *Application) Metrics() *core.FrameMetrics {
	return a.metrics
}

// Logger returns the application's logger.
func (a *Application) Logger() *log.Logger {
	return a.logger
}
