package engine

import (
	"github.com/gogpu/gg"
	"github.com/spaghettifunk/canvasapp/engine/platform"
)

// Canvas2DApplication is an Application with an immediate-mode 2D context
// acquired from the canvas.
type Canvas2DApplication struct {
	*Application
	// Context2D is nil when the canvas has no 2D context.
	Context2D *gg.Context
}

func NewCanvas2DApplication(canvas platform.Canvas, window platform.Window, handler Handler, opts ...Option) (*Canvas2DApplication, error) {
	app, err := NewApplication(canvas, window, handler, opts...)
	if err != nil {
		return nil, err
	}
	ctx, _ := canvas.GetContext(platform.ContextID2D).(*gg.Context)
	if ctx == nil {
		app.logger.Warn("2d context unavailable")
	}
	return &Canvas2DApplication{
		Application: app,
		Context2D:   ctx,
	}, nil
}
