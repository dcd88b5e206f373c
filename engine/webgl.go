package engine

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform"
)

// WebGLApplication is an Application bound to a GPU device acquired from
// the canvas.
type WebGLApplication struct {
	*Application
	Context3D gpucontext.DeviceProvider
}

// NewWebGLApplication fails with core.ErrContextCreation, after alerting
// the user, when the canvas cannot provide a GPU context.
func NewWebGLApplication(canvas platform.Canvas, window platform.Window, handler Handler, opts ...Option) (*WebGLApplication, error) {
	app, err := NewApplication(canvas, window, handler, opts...)
	if err != nil {
		return nil, err
	}
	provider, _ := canvas.GetContext(platform.ContextIDWebGL).(gpucontext.DeviceProvider)
	if provider == nil {
		msg := "unable to create the WebGL rendering context"
		window.Alert(msg)
		app.Close()
		return nil, fmt.Errorf("%s: %w", msg, core.ErrContextCreation)
	}
	app.logger.Info("gpu context acquired", "surfaceFormat", provider.SurfaceFormat())
	return &WebGLApplication{
		Application: app,
		Context3D:   provider,
	}, nil
}
