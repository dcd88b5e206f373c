package headless

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/canvasapp/engine/core"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}
