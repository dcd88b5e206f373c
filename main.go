//go:build !js

/*
This is an example of application that uses the
engine package inside a desktop window
*/
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/canvasapp/engine"
	"github.com/spaghettifunk/canvasapp/engine/core"
	"github.com/spaghettifunk/canvasapp/engine/platform/desktop"
	"github.com/spaghettifunk/canvasapp/testbed"
)

func main() {
	configPath := flag.String("config", "canvas.toml", "path to the TOML configuration")
	snapshotPath := flag.String("snapshot", "snapshot.png", "where F12 saves the current frame")
	flag.Parse()

	config, watcher := loadConfig(*configPath)
	core.SetLogLevel(config.Level())

	p, err := desktop.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight, 60)
	if err != nil {
		core.LogFatal("failed to start platform: %s", err)
	}

	var opts []engine.Option
	if watcher != nil {
		opts = append(opts, engine.WithConfigUpdates(watcher.Changes()))
		go func() {
			for err := range watcher.Errors() {
				core.LogWarn("config watcher: %s", err)
			}
		}()
	}

	ta, err := testbed.NewTestApplication(p.Canvas(), p.Win(), config, opts...)
	if err != nil {
		core.LogFatal("failed to create application: %s", err)
	}
	ta.App.Events().Register(core.KeyDown, p, func(event core.InputEvent, listener interface{}) bool {
		ke, ok := event.(core.CanvasKeyboardEvent)
		if !ok || ke.KeyCode != core.KEY_F12 {
			return false
		}
		if err := p.Canvas().Snapshot(*snapshotPath); err != nil {
			core.LogError("failed to save snapshot: %s", err)
		} else {
			core.LogInfo("snapshot saved to %s", *snapshotPath)
		}
		return true
	})

	// Draw the first frame once before the loop is started.
	if err := ta.Update(0, 0); err != nil {
		core.LogError(err.Error())
	}
	if err := ta.Render(); err != nil {
		core.LogError(err.Error())
	}
	if err := p.Canvas().Present(); err != nil {
		core.LogError(err.Error())
	}
	core.LogInfo("press S to start the animation loop, P to stop it")

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		p.Window.SetShouldClose(true)
	}()

	if err := p.Run(); err != nil {
		core.LogError("platform loop failed: %s", err)
	}

	ta.App.Close()
	if watcher != nil {
		_ = watcher.Close()
	}
	_ = p.Shutdown()
}

// loadConfig falls back to the defaults when path does not exist. The
// watcher is nil in that case.
func loadConfig(path string) (*engine.ApplicationConfig, *engine.ConfigWatcher) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		core.LogInfo("no config at %s, using defaults", path)
		return engine.DefaultConfig(), nil
	}
	config, err := engine.LoadConfig(path)
	if err != nil {
		core.LogFatal("%s", err)
	}
	watcher, err := engine.NewConfigWatcher(path)
	if err != nil {
		core.LogWarn("config hot reload disabled: %s", err)
		return config, nil
	}
	return config, watcher
}
