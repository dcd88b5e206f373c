package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "first"`), 0o644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`name = "other"`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("name = \"second\"\nsupport_mouse_move = true\n"), 0o644))

	var cfg *ApplicationConfig
	require.Eventually(t, func() bool {
		select {
		case c := <-cw.Changes():
			cfg = c
		default:
		}
		return cfg != nil && cfg.Name == "second"
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, cfg.SupportMouseMove)

	require.NoError(t, cw.Close())
	assert.Error(t, cw.Close())

	// Both channels are closed once the watcher stops.
	for range cw.Changes() {
	}
	for range cw.Errors() {
	}
}

func TestConfigWatcherSkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "first"`), 0o644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Close()

	// Truncated, then left empty long enough for a reload to run.
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	select {
	case cfg := <-cw.Changes():
		t.Fatalf("empty file published a config named %q", cfg.Name)
	case err := <-cw.Errors():
		t.Fatalf("empty file reported %s", err)
	case <-time.After(10 * reloadDelay):
	}

	require.NoError(t, os.WriteFile(path, []byte("name = \"second\"\n"), 0o644))
	select {
	case cfg := <-cw.Changes():
		assert.Equal(t, "second", cfg.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after content was written")
	}
}

func TestConfigWatcherCoalescesTruncateAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "first"`), 0o644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("name = \"third\"\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case cfg := <-cw.Changes():
		assert.Equal(t, "third", cfg.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file was rewritten")
	}

	require.NoError(t, cw.Close())
	// Only the rewritten config was ever published.
	for cfg := range cw.Changes() {
		assert.Equal(t, "third", cfg.Name)
	}
}

func TestConfigWatcherInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "first"`), 0o644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Close()

	require.NoError(t, os.WriteFile(path, []byte("name = "), 0o644))

	select {
	case err := <-cw.Errors():
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error reported")
	}
}

func TestConfigWatcherMissingDirectory(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "missing", "canvas.toml"))
	assert.Error(t, err)
}
