package platform

// Event is a native event as delivered by the host.
type Event interface {
	Type() string
	// Target is the element the event was dispatched to, nil if unknown.
	Target() Element
}

type MouseEvent struct {
	EventType   string
	EventTarget Element
	ClientX     float64
	ClientY     float64
	Button      int16
	AltKey      bool
	CtrlKey     bool
	ShiftKey    bool
}

func (e *MouseEvent) Type() string    { return e.EventType }
func (e *MouseEvent) Target() Element { return e.EventTarget }

type KeyboardEvent struct {
	EventType   string
	EventTarget Element
	Key         string
	KeyCode     int
	Repeat      bool
	AltKey      bool
	CtrlKey     bool
	ShiftKey    bool
}

func (e *KeyboardEvent) Type() string    { return e.EventType }
func (e *KeyboardEvent) Target() Element { return e.EventTarget }
