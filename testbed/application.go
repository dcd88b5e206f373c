package testbed

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/spaghettifunk/canvasapp/engine"
	"github.com/spaghettifunk/canvasapp/engine/containers"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/math"
	"github.com/spaghettifunk/canvasapp/engine/platform"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hudFontSize = 14
	// maxTrail is how many drag positions are kept; older ones are dropped.
	maxTrail = 256
)

// TestApplication logs every hook it receives and draws a small HUD: the
// last pointer position, the drag trail and the frame statistics.
type TestApplication struct {
	engine.BaseHandler

	App  *engine.Canvas2DApplication
	face text.Face

	lastPosition math.Vec2
	trail        *containers.RingQueue[math.Vec2]
	elapsedMsec  float64
}

func NewTestApplication(canvas platform.Canvas, window platform.Window, config *engine.ApplicationConfig, opts ...engine.Option) (*TestApplication, error) {
	ta := &TestApplication{trail: containers.NewRingQueue[math.Vec2](maxTrail)}

	opts = append([]engine.Option{engine.WithConfig(config)}, opts...)
	app, err := engine.NewCanvas2DApplication(canvas, window, ta, opts...)
	if err != nil {
		return nil, err
	}
	ta.App = app

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		core.LogWarn("hud font unavailable: %s", err)
	} else {
		ta.face = source.Face(hudFontSize)
	}

	app.Events().Register(core.KeyDown, ta, ta.onControlKey)
	return ta, nil
}

// onControlKey starts the loop on S and stops it on P.
func (ta *TestApplication) onControlKey(event core.InputEvent, listener interface{}) bool {
	ke, ok := event.(core.CanvasKeyboardEvent)
	if !ok || ke.Repeat {
		return false
	}
	switch ke.KeyCode {
	case core.KEY_S:
		ta.App.Start()
		return true
	case core.KEY_P:
		ta.App.Stop()
		return true
	}
	return false
}

func (ta *TestApplication) Update(elapsedMsec, intervalSec float64) error {
	core.LogDebug("update: elapsed=%v interval=%v", elapsedMsec, intervalSec)
	ta.elapsedMsec = elapsedMsec
	return nil
}

func (ta *TestApplication) Render() error {
	core.LogDebug("render")
	ctx := ta.App.Context2D
	if ctx == nil {
		return nil
	}

	ctx.ClearWithColor(gg.RGBA{R: 0.12, G: 0.12, B: 0.14, A: 1})

	if !ta.trail.IsEmpty() {
		ctx.SetRGB(0.35, 0.65, 0.95)
		ta.trail.Each(func(p math.Vec2) {
			ctx.DrawCircle(p.X, p.Y, 2)
		})
		if err := ctx.Fill(); err != nil {
			return fmt.Errorf("failed to draw trail: %w", err)
		}
	}

	ctx.SetRGB(0.95, 0.45, 0.3)
	ctx.DrawCircle(ta.lastPosition.X, ta.lastPosition.Y, 6)
	if err := ctx.Fill(); err != nil {
		return fmt.Errorf("failed to draw cursor: %w", err)
	}

	if ta.face == nil {
		return nil
	}
	ctx.SetFont(ta.face)
	ctx.SetRGB(1, 1, 1)
	ctx.DrawString(fmt.Sprintf("elapsed %.0f ms", ta.elapsedMsec), 8, 18)
	if m := ta.App.Metrics(); m != nil {
		ctx.DrawString(fmt.Sprintf("%.1f fps  %.2f ms", m.FPS(), m.FrameTime()), 8, 36)
	}
	ctx.DrawString(fmt.Sprintf("pointer %s", ta.lastPosition), 8, 54)
	return nil
}

func (ta *TestApplication) DispatchMouseDown(evt core.CanvasMouseEvent) {
	core.LogInfo("mouse down: canvasPosition=%s button=%d", evt.CanvasPosition, evt.Button)
	ta.lastPosition = evt.CanvasPosition
	ta.trail.Clear()
}

func (ta *TestApplication) DispatchMouseUp(evt core.CanvasMouseEvent) {
	core.LogDebug("mouse up: canvasPosition=%s", evt.CanvasPosition)
	ta.lastPosition = evt.CanvasPosition
}

func (ta *TestApplication) DispatchMouseMove(evt core.CanvasMouseEvent) {
	ta.lastPosition = evt.CanvasPosition
}

func (ta *TestApplication) DispatchMouseDrag(evt core.CanvasMouseEvent) {
	ta.lastPosition = evt.CanvasPosition
	ta.trail.Push(evt.CanvasPosition)
}

func (ta *TestApplication) DispatchKeyDown(evt core.CanvasKeyboardEvent) {
	core.LogInfo("key: %s is down.", evt.Key)
}

func (ta *TestApplication) DispatchKeyUp(evt core.CanvasKeyboardEvent) {
	core.LogDebug("key: %s is up.", evt.Key)
}
