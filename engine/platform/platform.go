// Package platform abstracts the host the application runs in: the drawing
// surface, DOM-style event registration, frame scheduling and the handful of
// window services (computed style, alert) the input normalization needs.
package platform

// Native event type names, as delivered by the host.
const (
	EventMouseDown = "mousedown"
	EventMouseUp   = "mouseup"
	EventMouseMove = "mousemove"
	EventKeyDown   = "keydown"
	EventKeyUp     = "keyup"
	EventKeyPress  = "keypress"
)

// Context identifiers accepted by Canvas.GetContext.
const (
	ContextID2D    = "2d"
	ContextIDWebGL = "webgl"
)

// Element is anything events can be registered on.
type Element interface {
	AddEventListener(eventType string, listener Listener)
	RemoveEventListener(eventType string, listener Listener)
}

// Canvas is the drawing surface receiving pointer events.
type Canvas interface {
	Element
	// BoundingClientRect returns the canvas box in viewport coordinates.
	BoundingClientRect() Rect
	// GetContext returns the rendering context for contextID, or nil when the
	// host cannot create one.
	GetContext(contextID string) any
}

// Presenter is implemented by canvases that need an explicit flush of the
// 2D context after each rendered frame.
type Presenter interface {
	Present() error
}

// Window is the global scope: keyboard events, frame scheduling and
// window services.
type Window interface {
	Element
	// RequestAnimationFrame schedules cb for the next display refresh and
	// returns a handle for CancelAnimationFrame.
	RequestAnimationFrame(cb FrameCallback) int
	CancelAnimationFrame(handle int)
	GetComputedStyle(el Element) ComputedStyle
	// Alert shows a blocking message to the user.
	Alert(message string)
}

// FrameCallback receives a monotonic timestamp in milliseconds.
type FrameCallback func(timestamp float64)

// Listener receives native events. A returned error is fatal for the event;
// the backend decides how to surface it.
type Listener interface {
	HandleEvent(evt Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(evt Event) error

func (f ListenerFunc) HandleEvent(evt Event) error {
	return f(evt)
}

// Rect mirrors DOMRect.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// ComputedStyle carries the CSS properties used to locate the content box,
// as raw CSS strings (e.g. "2px").
type ComputedStyle struct {
	BorderLeftWidth string
	BorderTopWidth  string
	PaddingLeft     string
	PaddingTop      string
}
