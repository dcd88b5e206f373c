//go:build js && wasm

package web

import (
	"syscall/js"

	"github.com/spaghettifunk/canvasapp/engine/platform"
)

// node is a DOM element the application did not wrap, e.g. a child of the
// canvas an event was targeted at. It only serves style lookups.
type node struct {
	value js.Value
}

func (n node) AddEventListener(string, platform.Listener)    {}
func (n node) RemoveEventListener(string, platform.Listener) {}
func (n node) Value() js.Value                               { return n.value }

func targetOf(evt js.Value, owner js.Value, self platform.Element) platform.Element {
	t := evt.Get("target")
	if t.IsNull() || t.IsUndefined() {
		return nil
	}
	if t.Equal(owner) {
		return self
	}
	return node{value: t}
}

// convertEvent copies the fields the application reads out of a DOM event.
// Event types other than mouse and keyboard yield nil.
func convertEvent(evt js.Value, owner js.Value, self platform.Element) platform.Event {
	typ := evt.Get("type").String()
	switch typ {
	case platform.EventMouseDown, platform.EventMouseUp, platform.EventMouseMove:
		return &platform.MouseEvent{
			EventType:   typ,
			EventTarget: targetOf(evt, owner, self),
			ClientX:     evt.Get("clientX").Float(),
			ClientY:     evt.Get("clientY").Float(),
			Button:      int16(evt.Get("button").Int()),
			AltKey:      evt.Get("altKey").Bool(),
			CtrlKey:     evt.Get("ctrlKey").Bool(),
			ShiftKey:    evt.Get("shiftKey").Bool(),
		}
	case platform.EventKeyDown, platform.EventKeyUp, platform.EventKeyPress:
		return &platform.KeyboardEvent{
			EventType:   typ,
			EventTarget: targetOf(evt, owner, self),
			Key:         evt.Get("key").String(),
			KeyCode:     evt.Get("keyCode").Int(),
			Repeat:      evt.Get("repeat").Bool(),
			AltKey:      evt.Get("altKey").Bool(),
			CtrlKey:     evt.Get("ctrlKey").Bool(),
			ShiftKey:    evt.Get("shiftKey").Bool(),
		}
	}
	return nil
}
