//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/spaghettifunk/canvasapp/engine"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform/web"
	"github.com/spaghettifunk/canvasapp/testbed"
)

func main() {
	config := engine.DefaultConfig()
	core.SetLogLevel(config.Level())

	canvas, err := web.CanvasByID(config.CanvasID)
	if err != nil {
		core.LogFatal("%s", err)
	}
	window := web.NewWindow()

	ta, err := testbed.NewTestApplication(canvas, window, config)
	if err != nil {
		core.LogFatal("failed to create application: %s", err)
	}

	if err := ta.Update(0, 0); err != nil {
		core.LogError("%s", err.Error())
	}
	if err := ta.Render(); err != nil {
		core.LogError("%s", err.Error())
	}
	if err := canvas.Present(); err != nil {
		core.LogError("%s", err.Error())
	}

	onClick("start", ta.App.Start)
	onClick("stop", ta.App.Stop)

	// Keep the Go runtime alive for the callbacks.
	select {}
}

func onClick(id string, fn func()) {
	button := js.Global().Get("document").Call("getElementById", id)
	if button.IsNull() || button.IsUndefined() {
		core.LogWarn("no `%s` button in the page", id)
		return
	}
	button.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}))
}
