package engine

import "github.com/spaghettifunk/canvasapp/engine/core"

// Handler is the extension surface of an Application. Update and Render run
// once per animation frame; the Dispatch hooks receive normalized input.
// Embed BaseHandler to override only the hooks you need.
type Handler interface {
	// Update receives the milliseconds elapsed since the loop started and
	// the seconds since the previous frame. Returning an error stops the loop.
	Update(elapsedMsec float64, intervalSec float64) error
	// Render draws the current frame. Returning an error stops the loop.
	Render() error

	DispatchMouseDown(evt core.CanvasMouseEvent)
	DispatchMouseUp(evt core.CanvasMouseEvent)
	DispatchMouseMove(evt core.CanvasMouseEvent)
	DispatchMouseDrag(evt core.CanvasMouseEvent)
	DispatchKeyPress(evt core.CanvasKeyboardEvent)
	DispatchKeyDown(evt core.CanvasKeyboardEvent)
	DispatchKeyUp(evt core.CanvasKeyboardEvent)
}

// BaseHandler implements every Handler method as a no-op.
type BaseHandler struct{}

var _ Handler = BaseHandler{}

func (BaseHandler) Update(elapsedMsec float64, intervalSec float64) error { return nil }
func (BaseHandler) Render() error                                         { return nil }

func (BaseHandler) DispatchMouseDown(evt core.CanvasMouseEvent)   {}
func (BaseHandler) DispatchMouseUp(evt core.CanvasMouseEvent)     {}
func (BaseHandler) DispatchMouseMove(evt core.CanvasMouseEvent)   {}
func (BaseHandler) DispatchMouseDrag(evt core.CanvasMouseEvent)   {}
func (BaseHandler) DispatchKeyPress(evt core.CanvasKeyboardEvent) {}
func (BaseHandler) DispatchKeyDown(evt core.CanvasKeyboardEvent)  {}
func (BaseHandler) DispatchKeyUp(evt core.CanvasKeyboardEvent)    {}
