package core

import (
	"github.com/spaghettifunk/canvasapp/engine/math"
)

// InputEventType tags the kind of a normalized input event.
type InputEventType uint8

const (
	MouseEvent InputEventType = iota
	MouseDown
	MouseUp
	MouseMove
	MouseDrag
	KeyboardEvent
	KeyUp
	KeyDown
	KeyPress

	maxInputEventType
)

func (t InputEventType) String() string {
	switch t {
	case MouseEvent:
		return "mouse"
	case MouseDown:
		return "mousedown"
	case MouseUp:
		return "mouseup"
	case MouseMove:
		return "mousemove"
	case MouseDrag:
		return "mousedrag"
	case KeyboardEvent:
		return "keyboard"
	case KeyUp:
		return "keyup"
	case KeyDown:
		return "keydown"
	case KeyPress:
		return "keypress"
	default:
		return "unknown"
	}
}

// IsMouse reports whether t belongs to the mouse family.
func (t InputEventType) IsMouse() bool {
	return t <= MouseDrag
}

// CanvasInputEvent holds what every normalized event shares: the modifier
// flags and the type tag.
type CanvasInputEvent struct {
	AltKey   bool
	CtrlKey  bool
	ShiftKey bool
	Type     InputEventType
}

// InputEvent is implemented by CanvasMouseEvent and CanvasKeyboardEvent only.
type InputEvent interface {
	Input() CanvasInputEvent
	isInputEvent()
}

type CanvasMouseEvent struct {
	CanvasInputEvent
	// Button index as reported by the platform (0 left, 1 middle, 2 right).
	Button Button
	// Position relative to the canvas content box.
	CanvasPosition math.Vec2
	// Reserved for a future object-local position; always zero.
	LocalPosition math.Vec2
}

func NewCanvasMouseEvent(typ InputEventType, canvasPos math.Vec2, button Button, altKey, ctrlKey, shiftKey bool) CanvasMouseEvent {
	return CanvasMouseEvent{
		CanvasInputEvent: CanvasInputEvent{
			AltKey:   altKey,
			CtrlKey:  ctrlKey,
			ShiftKey: shiftKey,
			Type:     typ,
		},
		Button:         button,
		CanvasPosition: canvasPos,
		LocalPosition:  math.NewVec2Zero(),
	}
}

func (e CanvasMouseEvent) Input() CanvasInputEvent { return e.CanvasInputEvent }
func (CanvasMouseEvent) isInputEvent()             {}

type CanvasKeyboardEvent struct {
	CanvasInputEvent
	Key     string
	KeyCode KeyCode
	// Repeat is true when the key is being held and the event auto-repeats.
	Repeat bool
}

func NewCanvasKeyboardEvent(typ InputEventType, key string, keyCode KeyCode, repeat, altKey, ctrlKey, shiftKey bool) CanvasKeyboardEvent {
	return CanvasKeyboardEvent{
		CanvasInputEvent: CanvasInputEvent{
			AltKey:   altKey,
			CtrlKey:  ctrlKey,
			ShiftKey: shiftKey,
			Type:     typ,
		},
		Key:     key,
		KeyCode: keyCode,
		Repeat:  repeat,
	}
}

func (e CanvasKeyboardEvent) Input() CanvasInputEvent { return e.CanvasInputEvent }
func (CanvasKeyboardEvent) isInputEvent()             {}

// FnOnEvent should return true if the event was handled; later listeners
// are then skipped.
type FnOnEvent func(event InputEvent, listener interface{}) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus is a per-application listener table keyed by event type.
type EventBus struct {
	registered [maxInputEventType][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Register adds a listener for typ. A listener already registered for the
// same type is rejected and Register returns false.
func (b *EventBus) Register(typ InputEventType, listener interface{}, onEvent FnOnEvent) bool {
	if typ >= maxInputEventType || onEvent == nil {
		return false
	}
	for _, e := range b.registered[typ] {
		if e.listener == listener {
			LogWarn("listener already registered for event type `%s`", typ)
			return false
		}
	}
	b.registered[typ] = append(b.registered[typ], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the listener for typ, keeping the order of the others.
func (b *EventBus) Unregister(typ InputEventType, listener interface{}) bool {
	if typ >= maxInputEventType {
		return false
	}
	events := b.registered[typ]
	for i, e := range events {
		if e.listener == listener {
			// Copy: Fire may still be ranging over events.
			remaining := make([]*registeredEvent, 0, len(events)-1)
			remaining = append(remaining, events[:i]...)
			b.registered[typ] = append(remaining, events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire delivers event to the listeners of its type in registration order.
// Returns true if one of them handled it. Registrations changed by a
// listener take effect from the next Fire.
func (b *EventBus) Fire(event InputEvent) bool {
	typ := event.Input().Type
	if typ >= maxInputEventType {
		return false
	}
	for _, e := range b.registered[typ] {
		if e.callback(event, e.listener) {
			return true
		}
	}
	return false
}

// Reset drops every registration.
func (b *EventBus) Reset() {
	for i := range b.registered {
		b.registered[i] = nil
	}
}
