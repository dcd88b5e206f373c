// Package headless is an in-memory platform: events are injected by the
// caller and frames run when the caller advances the clock. It backs the
// tests and headless runs.
package headless

import (
	"fmt"
	"sort"

	"github.com/gogpu/gg"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform"
)

type listeners map[string][]platform.Listener

func (l listeners) add(eventType string, listener platform.Listener) {
	for _, existing := range l[eventType] {
		if existing == listener {
			return
		}
	}
	l[eventType] = append(l[eventType], listener)
}

func (l listeners) remove(eventType string, listener platform.Listener) {
	registered := l[eventType]
	for i, existing := range registered {
		if existing == listener {
			l[eventType] = append(registered[:i], registered[i+1:]...)
			return
		}
	}
}

func (l listeners) dispatch(evt platform.Event) error {
	// Copy so listeners may unregister while being called.
	registered := append([]platform.Listener(nil), l[evt.Type()]...)
	for _, listener := range registered {
		if err := listener.HandleEvent(evt); err != nil {
			return err
		}
	}
	return nil
}

// Canvas is an off-screen canvas with a fixed bounding rect.
type Canvas struct {
	Rect  platform.Rect
	Style platform.ComputedStyle

	listeners listeners
	contexts  map[string]any
}

var _ platform.Canvas = (*Canvas)(nil)

// NewCanvas creates a width x height canvas at the viewport origin.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Rect:      platform.Rect{Width: float64(width), Height: float64(height)},
		listeners: listeners{},
		contexts:  map[string]any{},
	}
}

func (c *Canvas) AddEventListener(eventType string, listener platform.Listener) {
	c.listeners.add(eventType, listener)
}

func (c *Canvas) RemoveEventListener(eventType string, listener platform.Listener) {
	c.listeners.remove(eventType, listener)
}

// ListenerCount returns how many listeners are registered for eventType.
func (c *Canvas) ListenerCount(eventType string) int {
	return len(c.listeners[eventType])
}

func (c *Canvas) BoundingClientRect() platform.Rect {
	return c.Rect
}

// GetContext lazily creates a gg context for "2d". Any other id returns
// what SetContext registered, or nil.
func (c *Canvas) GetContext(contextID string) any {
	if ctx, ok := c.contexts[contextID]; ok {
		return ctx
	}
	if contextID == platform.ContextID2D {
		w, h := int(c.Rect.Width), int(c.Rect.Height)
		if w <= 0 || h <= 0 {
			return nil
		}
		ctx := gg.NewContext(w, h)
		c.contexts[contextID] = ctx
		return ctx
	}
	return nil
}

// SetContext registers the value GetContext returns for contextID. A nil
// value makes GetContext fail for that id.
func (c *Canvas) SetContext(contextID string, ctx any) {
	c.contexts[contextID] = ctx
}

// Dispatch delivers evt to the canvas listeners.
func (c *Canvas) Dispatch(evt platform.Event) error {
	return c.listeners.dispatch(evt)
}

// Window schedules frames on a manual clock.
type Window struct {
	// Style is returned by GetComputedStyle for every element.
	Style platform.ComputedStyle
	// Alerts records every Alert message.
	Alerts []string

	listeners  listeners
	frames     map[int]platform.FrameCallback
	nextHandle int
	now        float64
}

var _ platform.Window = (*Window)(nil)

func NewWindow() *Window {
	return &Window{
		listeners:  listeners{},
		frames:     map[int]platform.FrameCallback{},
		nextHandle: 1,
	}
}

func (w *Window) AddEventListener(eventType string, listener platform.Listener) {
	w.listeners.add(eventType, listener)
}

func (w *Window) RemoveEventListener(eventType string, listener platform.Listener) {
	w.listeners.remove(eventType, listener)
}

func (w *Window) ListenerCount(eventType string) int {
	return len(w.listeners[eventType])
}

// Dispatch delivers evt to the window listeners.
func (w *Window) Dispatch(evt platform.Event) error {
	return w.listeners.dispatch(evt)
}

func (w *Window) RequestAnimationFrame(cb platform.FrameCallback) int {
	handle := w.nextHandle
	w.nextHandle++
	w.frames[handle] = cb
	return handle
}

func (w *Window) CancelAnimationFrame(handle int) {
	delete(w.frames, handle)
}

func (w *Window) GetComputedStyle(el platform.Element) platform.ComputedStyle {
	return w.Style
}

func (w *Window) Alert(message string) {
	core.LogError("alert: %s", message)
	w.Alerts = append(w.Alerts, message)
}

// Pending returns how many frame callbacks are scheduled.
func (w *Window) Pending() int {
	return len(w.frames)
}

// Now returns the current frame clock in milliseconds.
func (w *Window) Now() float64 {
	return w.now
}

// Frame sets the clock to timestamp and runs the callbacks scheduled before
// the call, in request order. Callbacks requested while running wait for the
// next Frame, as with requestAnimationFrame.
func (w *Window) Frame(timestamp float64) int {
	if timestamp < w.now {
		panic(fmt.Sprintf("headless: frame clock went backwards (%v < %v)", timestamp, w.now))
	}
	w.now = timestamp

	handles := make([]int, 0, len(w.frames))
	for h := range w.frames {
		handles = append(handles, h)
	}
	sort.Ints(handles)

	ran := 0
	for _, h := range handles {
		cb, ok := w.frames[h]
		// Cancelled by an earlier callback of this batch.
		if !ok {
			continue
		}
		delete(w.frames, h)
		cb(timestamp)
		ran++
	}
	return ran
}

// Advance runs a frame deltaMsec after the current clock.
func (w *Window) Advance(deltaMsec float64) int {
	return w.Frame(w.now + deltaMsec)
}

// Run advances count frames of deltaMsec each and returns how many
// callbacks ran in total.
func (w *Window) Run(count int, deltaMsec float64) int {
	ran := 0
	for i := 0; i < count; i++ {
		ran += w.Advance(deltaMsec)
	}
	return ran
}
