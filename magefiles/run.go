//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the application in a desktop window.
func (Run) Desktop() error {
	fmt.Println("Run desktop...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "canvas.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the wasm bundle and serves web/ on :8080.
func (Run) Web() error {
	mg.Deps(Build.Wasm)
	fmt.Println("Serving web/ on http://localhost:8080 ...")
	if _, err := executeCmd("python3", withArgs("-m", "http.server", "8080"), withDir("web"), withStream()); err != nil {
		return err
	}
	return nil
}
