//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const (
	binDir     = "bin"
	wasmOutput = "web/canvasapp.wasm"
)

// Compiles the application to WebAssembly and copies wasm_exec.js next to it.
func (Build) Wasm() error {
	fmt.Println("Building wasm...")
	if err := os.Setenv("GOOS", "js"); err != nil {
		return err
	}
	if err := os.Setenv("GOARCH", "wasm"); err != nil {
		return err
	}
	defer os.Unsetenv("GOOS")
	defer os.Unsetenv("GOARCH")

	if _, err := executeCmd("go", withArgs("build", "-o", wasmOutput, "."), withStream()); err != nil {
		return err
	}
	return copyWasmExec()
}

// Builds the desktop binary into bin/.
func (Build) Desktop() error {
	fmt.Println("Building desktop...")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join(binDir, "canvasapp"), "."), withStream())
	return err
}

// Runs the unit tests.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

func copyWasmExec() error {
	goroot, err := executeCmd("go", withArgs("env", "GOROOT"))
	if err != nil {
		return err
	}
	root := strings.TrimSpace(goroot)
	// Go 1.24 moved the support file from misc/wasm to lib/wasm.
	for _, dir := range []string{"lib", "misc"} {
		data, err := os.ReadFile(filepath.Join(root, dir, "wasm", "wasm_exec.js"))
		if err != nil {
			continue
		}
		return os.WriteFile(filepath.Join("web", "wasm_exec.js"), data, 0o644)
	}
	return fmt.Errorf("wasm_exec.js not found under %s", root)
}
