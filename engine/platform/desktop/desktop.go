//go:build !js

// Package desktop hosts an application in a native GLFW window. The window's
// client area plays the canvas; frames are paced by a ticker on the main
// thread.
package desktop

import (
	"fmt"
	"image"
	"runtime"
	"sort"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gg"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform"
	"golang.org/x/image/draw"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

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

type Platform struct {
	Window *glfw.Window

	canvas     *Canvas
	window     *Window
	surface    *surface
	frameDelay time.Duration
	startTime  float64
}

// Startup creates the window. targetFPS paces the frame loop.
func Startup(applicationName string, x, y, width, height uint32, targetFPS int) (*Platform, error) {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return nil, err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return nil, err
	}

	if targetFPS <= 0 {
		targetFPS = 60
	}
	p := &Platform{
		Window:     window,
		frameDelay: time.Second / time.Duration(targetFPS),
	}
	p.canvas = &Canvas{platform: p, listeners: listeners{}}
	p.window = &Window{platform: p, listeners: listeners{}, frames: map[int]platform.FrameCallback{}, nextHandle: 1}

	window.SetKeyCallback(p.keyCallback)
	window.SetCharModsCallback(p.charModsCallback)
	window.SetMouseButtonCallback(p.mouseButtonCallback)
	window.SetCursorPosCallback(p.cursorPosCallback)
	window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	window.SetPos(int(x), int(y))

	s, err := newSurface(window, applicationName)
	if err != nil {
		core.LogWarn("frames will not be shown on screen: %s", err)
	} else {
		p.surface = s
	}
	window.Show()

	p.startTime = glfw.GetTime()
	return p, nil
}

func (p *Platform) Canvas() *Canvas {
	return p.canvas
}

func (p *Platform) Win() *Window {
	return p.window
}

// Run pumps window events and runs due frame callbacks until the window is
// closed.
func (p *Platform) Run() error {
	ticker := time.NewTicker(p.frameDelay)
	defer ticker.Stop()

	for !p.Window.ShouldClose() {
		glfw.PollEvents()
		if len(p.window.frames) == 0 {
			// Nothing animating: sleep until input arrives.
			glfw.WaitEventsTimeout(p.frameDelay.Seconds())
			continue
		}
		<-ticker.C
		p.window.runFrames(p.now())
	}
	return nil
}

func (p *Platform) Shutdown() error {
	if p.surface != nil {
		p.surface.destroy()
	}
	p.Window.Destroy()
	glfw.Terminate()
	return nil
}

// now is the frame clock in milliseconds since Startup.
func (p *Platform) now() float64 {
	return (glfw.GetTime() - p.startTime) * 1000.0
}

func (p *Platform) fail(err error) {
	core.LogError("fatal event error: %s", err)
	p.Window.SetShouldClose(true)
}

func (p *Platform) dispatch(l listeners, evt platform.Event) {
	registered := append([]platform.Listener(nil), l[evt.Type()]...)
	for _, listener := range registered {
		if err := listener.HandleEvent(evt); err != nil {
			p.fail(err)
			return
		}
	}
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	var eventType string
	switch action {
	case glfw.Press, glfw.Repeat:
		eventType = platform.EventKeyDown
	case glfw.Release:
		eventType = platform.EventKeyUp
	default:
		return
	}
	p.dispatch(p.window.listeners, &platform.KeyboardEvent{
		EventType:   eventType,
		EventTarget: p.window,
		Key:         keyName(key, scancode),
		KeyCode:     int(keyCode(key)),
		Repeat:      action == glfw.Repeat,
		AltKey:      mods&glfw.ModAlt != 0,
		CtrlKey:     mods&glfw.ModControl != 0,
		ShiftKey:    mods&glfw.ModShift != 0,
	})
}

func (p *Platform) charModsCallback(w *glfw.Window, char rune, mods glfw.ModifierKey) {
	p.dispatch(p.window.listeners, &platform.KeyboardEvent{
		EventType:   platform.EventKeyPress,
		EventTarget: p.window,
		Key:         string(char),
		KeyCode:     int(char),
		AltKey:      mods&glfw.ModAlt != 0,
		CtrlKey:     mods&glfw.ModControl != 0,
		ShiftKey:    mods&glfw.ModShift != 0,
	})
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	eventType := platform.EventMouseDown
	if action == glfw.Release {
		eventType = platform.EventMouseUp
	}
	x, y := p.framebufferPos(w.GetCursorPos())
	p.dispatch(p.canvas.listeners, &platform.MouseEvent{
		EventType:   eventType,
		EventTarget: p.canvas,
		ClientX:     x,
		ClientY:     y,
		Button:      int16(domButton(button)),
		AltKey:      mods&glfw.ModAlt != 0,
		CtrlKey:     mods&glfw.ModControl != 0,
		ShiftKey:    mods&glfw.ModShift != 0,
	})
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	xpos, ypos = p.framebufferPos(xpos, ypos)
	p.dispatch(p.canvas.listeners, &platform.MouseEvent{
		EventType:   platform.EventMouseMove,
		EventTarget: p.canvas,
		ClientX:     xpos,
		ClientY:     ypos,
		AltKey:      w.GetKey(glfw.KeyLeftAlt) == glfw.Press || w.GetKey(glfw.KeyRightAlt) == glfw.Press,
		CtrlKey:     w.GetKey(glfw.KeyLeftControl) == glfw.Press || w.GetKey(glfw.KeyRightControl) == glfw.Press,
		ShiftKey:    w.GetKey(glfw.KeyLeftShift) == glfw.Press || w.GetKey(glfw.KeyRightShift) == glfw.Press,
	})
}

// framebufferPos converts a cursor position from screen coordinates to
// framebuffer pixels, the unit the canvas is sized in.
func (p *Platform) framebufferPos(x, y float64) (float64, float64) {
	winW, winH := p.Window.GetSize()
	fbW, fbH := p.Window.GetFramebufferSize()
	return scalePos(x, y, winW, winH, fbW, fbH)
}

func scalePos(x, y float64, winW, winH, fbW, fbH int) (float64, float64) {
	if winW > 0 && fbW > 0 {
		x *= float64(fbW) / float64(winW)
	}
	if winH > 0 && fbH > 0 {
		y *= float64(fbH) / float64(winH)
	}
	return x, y
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.surface != nil {
		p.surface.resized()
	}
	if p.canvas.gg == nil || width <= 0 || height <= 0 {
		return
	}
	if err := p.canvas.gg.Resize(width, height); err != nil {
		core.LogWarn("failed to resize 2d context: %s", err)
	}
}

// Canvas is the client area of the window.
type Canvas struct {
	platform  *Platform
	listeners listeners
	gg        *gg.Context
}

var (
	_ platform.Canvas    = (*Canvas)(nil)
	_ platform.Presenter = (*Canvas)(nil)
)

func (c *Canvas) AddEventListener(eventType string, listener platform.Listener) {
	c.listeners.add(eventType, listener)
}

func (c *Canvas) RemoveEventListener(eventType string, listener platform.Listener) {
	c.listeners.remove(eventType, listener)
}

// BoundingClientRect is the client area in framebuffer pixels; cursor
// positions are already relative to it.
func (c *Canvas) BoundingClientRect() platform.Rect {
	w, h := c.platform.Window.GetFramebufferSize()
	return platform.Rect{Width: float64(w), Height: float64(h)}
}

func (c *Canvas) GetContext(contextID string) any {
	switch contextID {
	case platform.ContextID2D:
		if c.gg == nil {
			w, h := c.platform.Window.GetFramebufferSize()
			if w <= 0 || h <= 0 {
				return nil
			}
			c.gg = gg.NewContext(w, h)
		}
		return c.gg
	case platform.ContextIDWebGL:
		if c.platform.surface == nil {
			return nil
		}
		return c.platform.surface
	}
	return nil
}

// Present shows the 2D frame in the window.
func (c *Canvas) Present() error {
	if c.gg == nil || c.platform.surface == nil {
		return nil
	}
	return c.platform.surface.present(toRGBA(c.gg.Image()))
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Snapshot writes the current 2D frame as a PNG.
func (c *Canvas) Snapshot(path string) error {
	if c.gg == nil {
		return fmt.Errorf("no 2d context: %w", core.ErrContextCreation)
	}
	return c.gg.SavePNG(path)
}

// Window schedules frames and receives keyboard events.
type Window struct {
	platform   *Platform
	listeners  listeners
	frames     map[int]platform.FrameCallback
	nextHandle int
}

var _ platform.Window = (*Window)(nil)

func (w *Window) AddEventListener(eventType string, listener platform.Listener) {
	w.listeners.add(eventType, listener)
}

func (w *Window) RemoveEventListener(eventType string, listener platform.Listener) {
	w.listeners.remove(eventType, listener)
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

// GetComputedStyle reports no border or padding: the client area has none.
func (w *Window) GetComputedStyle(el platform.Element) platform.ComputedStyle {
	return platform.ComputedStyle{}
}

func (w *Window) Alert(message string) {
	core.LogError("alert: %s", message)
}

func (w *Window) runFrames(timestamp float64) {
	handles := make([]int, 0, len(w.frames))
	for h := range w.frames {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	for _, h := range handles {
		cb, ok := w.frames[h]
		if !ok {
			continue
		}
		delete(w.frames, h)
		cb(timestamp)
	}
}
