//go:build js && wasm

package web

import (
	"syscall/js"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// glProvider exposes the canvas WebGL context as the GPU device.
type glProvider struct {
	gl js.Value
}

var _ gpucontext.DeviceProvider = (*glProvider)(nil)

// Value is the WebGLRenderingContext.
func (p *glProvider) Value() js.Value {
	return p.gl
}

func (p *glProvider) Device() gpucontext.Device   { return glDevice{p.gl} }
func (p *glProvider) Queue() gpucontext.Queue     { return glQueue{p.gl} }
func (p *glProvider) Adapter() gpucontext.Adapter { return glAdapter{p.gl} }

// SurfaceFormat is the layout of the default WebGL framebuffer.
func (p *glProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

type glDevice struct {
	gl js.Value
}

func (d glDevice) Poll(wait bool) {
	if wait {
		d.gl.Call("finish")
		return
	}
	d.gl.Call("flush")
}

func (d glDevice) Destroy() {
	ext := d.gl.Call("getExtension", "WEBGL_lose_context")
	if ext.IsNull() || ext.IsUndefined() {
		return
	}
	ext.Call("loseContext")
}

type glQueue struct {
	gl js.Value
}

type glAdapter struct {
	gl js.Value
}
