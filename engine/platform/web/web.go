//go:build js && wasm

// Package web runs applications inside a browser page through syscall/js.
package web

import (
	"fmt"
	"image"
	"image/color"
	"syscall/js"

	"github.com/gogpu/gg"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform"
)

// element binds Listener values to JS callbacks so they can be removed again.
type element struct {
	value js.Value
	funcs map[string]map[platform.Listener]js.Func
}

func newElement(v js.Value) element {
	return element{value: v, funcs: map[string]map[platform.Listener]js.Func{}}
}

// addFor registers listener on e; self is the platform element reported as
// the target when the DOM target is e itself.
func (e *element) addFor(self platform.Element, eventType string, listener platform.Listener) {
	if _, ok := e.funcs[eventType][listener]; ok {
		return
	}
	fn := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		evt := convertEvent(args[0], e.value, self)
		if evt == nil {
			return nil
		}
		if err := listener.HandleEvent(evt); err != nil {
			reportError(err)
		}
		return nil
	})
	if e.funcs[eventType] == nil {
		e.funcs[eventType] = map[platform.Listener]js.Func{}
	}
	e.funcs[eventType][listener] = fn
	e.value.Call("addEventListener", eventType, fn, false)
}

// reportError logs err and hands it to the page's error handlers without
// unwinding through the Go runtime.
func reportError(err error) {
	core.LogError("event handler failed: %s", err)
	report := js.Global().Get("reportError")
	if report.Type() != js.TypeFunction {
		return
	}
	report.Invoke(js.Global().Get("Error").New(err.Error()))
}

func (e *element) RemoveEventListener(eventType string, listener platform.Listener) {
	fn, ok := e.funcs[eventType][listener]
	if !ok {
		return
	}
	e.value.Call("removeEventListener", eventType, fn, false)
	delete(e.funcs[eventType], listener)
	fn.Release()
}

// Canvas wraps an HTMLCanvasElement. Its 2D context is a gg context that is
// copied into the element after every frame.
type Canvas struct {
	element
	ctx2D    js.Value
	gg       *gg.Context
	provider *glProvider
	pixels   js.Value
}

var (
	_ platform.Canvas    = (*Canvas)(nil)
	_ platform.Presenter = (*Canvas)(nil)
)

// CanvasByID looks the canvas up in the document.
func CanvasByID(id string) (*Canvas, error) {
	v := js.Global().Get("document").Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("canvas `%s`: %w", id, core.ErrNilCanvas)
	}
	return &Canvas{element: newElement(v)}, nil
}

func (c *Canvas) Value() js.Value {
	return c.value
}

func (c *Canvas) AddEventListener(eventType string, listener platform.Listener) {
	c.element.addFor(c, eventType, listener)
}

func (c *Canvas) BoundingClientRect() platform.Rect {
	r := c.value.Call("getBoundingClientRect")
	return platform.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

func (c *Canvas) GetContext(contextID string) any {
	switch contextID {
	case platform.ContextID2D:
		if c.gg != nil {
			return c.gg
		}
		ctx := c.value.Call("getContext", "2d")
		if ctx.IsNull() || ctx.IsUndefined() {
			return nil
		}
		w, h := c.value.Get("width").Int(), c.value.Get("height").Int()
		if w <= 0 || h <= 0 {
			return nil
		}
		c.ctx2D = ctx
		c.gg = gg.NewContext(w, h)
		return c.gg
	case platform.ContextIDWebGL:
		if c.provider != nil {
			return c.provider
		}
		gl := c.value.Call("getContext", "webgl")
		if gl.IsNull() || gl.IsUndefined() {
			return nil
		}
		c.provider = &glProvider{gl: gl}
		return c.provider
	}
	return nil
}

// Present copies the gg pixels into the canvas 2D context.
func (c *Canvas) Present() error {
	if c.gg == nil {
		return nil
	}
	img := c.gg.Image()
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var buf []byte
	switch src := img.(type) {
	case *image.NRGBA:
		if src.Stride == w*4 {
			buf = src.Pix[:w*h*4]
			break
		}
		buf = toNRGBA(img)
	case *image.RGBA:
		if src.Stride != w*4 {
			buf = toNRGBA(img)
			break
		}
		// ImageData wants non-premultiplied RGBA.
		buf = make([]byte, w*h*4)
		for i := 0; i < len(buf); i += 4 {
			r, g, b, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
			if a != 0 && a != 0xff {
				r = uint8(uint16(r) * 0xff / uint16(a))
				g = uint8(uint16(g) * 0xff / uint16(a))
				b = uint8(uint16(b) * 0xff / uint16(a))
			}
			buf[i], buf[i+1], buf[i+2], buf[i+3] = r, g, b, a
		}
	default:
		buf = toNRGBA(img)
	}
	if c.pixels.IsUndefined() || c.pixels.Get("length").Int() != len(buf) {
		c.pixels = js.Global().Get("Uint8ClampedArray").New(len(buf))
	}
	js.CopyBytesToJS(c.pixels, buf)
	data := js.Global().Get("ImageData").New(c.pixels, w, h)
	c.ctx2D.Call("putImageData", data, 0, 0)
	return nil
}

func toNRGBA(img image.Image) []byte {
	b := img.Bounds()
	buf := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf = append(buf, p.R, p.G, p.B, p.A)
		}
	}
	return buf
}

// Window wraps the global window object.
type Window struct {
	element
	frames map[int]js.Func
}

var _ platform.Window = (*Window)(nil)

func NewWindow() *Window {
	return &Window{
		element: newElement(js.Global().Get("window")),
		frames:  map[int]js.Func{},
	}
}

func (w *Window) AddEventListener(eventType string, listener platform.Listener) {
	w.element.addFor(w, eventType, listener)
}

func (w *Window) RequestAnimationFrame(cb platform.FrameCallback) int {
	var handle int
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		delete(w.frames, handle)
		fn.Release()
		ts := 0.0
		if len(args) > 0 {
			ts = args[0].Float()
		}
		cb(ts)
		return nil
	})
	handle = w.value.Call("requestAnimationFrame", fn).Int()
	w.frames[handle] = fn
	return handle
}

func (w *Window) CancelAnimationFrame(handle int) {
	w.value.Call("cancelAnimationFrame", handle)
	if fn, ok := w.frames[handle]; ok {
		delete(w.frames, handle)
		fn.Release()
	}
}

func (w *Window) GetComputedStyle(el platform.Element) platform.ComputedStyle {
	v, ok := el.(interface{ Value() js.Value })
	if !ok {
		return platform.ComputedStyle{}
	}
	decl := w.value.Call("getComputedStyle", v.Value())
	return platform.ComputedStyle{
		BorderLeftWidth: decl.Get("borderLeftWidth").String(),
		BorderTopWidth:  decl.Get("borderTopWidth").String(),
		PaddingLeft:     decl.Get("paddingLeft").String(),
		PaddingTop:      decl.Get("paddingTop").String(),
	}
}

func (w *Window) Alert(message string) {
	w.value.Call("alert", message)
}

func (w *Window) Value() js.Value {
	return w.value
}
