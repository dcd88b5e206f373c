package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/canvasapp/engine/core"
)

// reloadDelay coalesces the bursts of events a single save produces.
const reloadDelay = 50 * time.Millisecond

// ConfigWatcher reloads a TOML config file whenever it changes on disk and
// publishes the result on Changes. Pass Changes to WithConfigUpdates so the
// application applies it between frames.
type ConfigWatcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	changes  chan *ApplicationConfig
	errors   chan error
	done     chan struct{}

	mutex    sync.Mutex
	isClosed bool
	wg       sync.WaitGroup
}

func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace the file instead of writing it, so the
	// directory is watched and events are filtered by name.
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		fsnotify: fsWatch,
		changes:  make(chan *ApplicationConfig, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

// Changes delivers every successfully reloaded config. When the consumer
// lags, only the newest config is kept.
func (cw *ConfigWatcher) Changes() <-chan *ApplicationConfig {
	return cw.changes
}

// Errors delivers reload and watch errors. It never blocks the watcher and
// is closed together with Changes.
func (cw *ConfigWatcher) Errors() <-chan error {
	return cw.errors
}

func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.isClosed {
		cw.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	cw.isClosed = true
	cw.mutex.Unlock()

	close(cw.done)
	cw.wg.Wait()
	return nil
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	for {
		select {
		case e := <-cw.fsnotify.Events:
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			timer.Reset(reloadDelay)

		case <-timer.C:
			cw.reload()

		case err := <-cw.fsnotify.Errors:
			core.LogError("%s", err.Error())
			cw.publishError(err)

		case <-cw.done:
			timer.Stop()
			cw.fsnotify.Close()
			close(cw.changes)
			close(cw.errors)
			return
		}
	}
}

// reload skips an empty file: a save that truncates first is seen before
// its content is written.
func (cw *ConfigWatcher) reload() {
	data, err := os.ReadFile(cw.path)
	if err != nil {
		core.LogWarn("config reload failed: %s", err)
		cw.publishError(err)
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		core.LogDebug("config %s is empty, waiting for content", cw.path)
		return
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		err = fmt.Errorf("%s: %w", cw.path, err)
		core.LogWarn("config reload failed: %s", err)
		cw.publishError(err)
		return
	}
	core.LogInfo("config %s changed", cw.path)
	// Drop a pending stale config so the newest one wins.
	select {
	case <-cw.changes:
	default:
	}
	cw.changes <- cfg
}

func (cw *ConfigWatcher) publishError(err error) {
	select {
	case cw.errors <- err:
	default:
	}
}
