package headless

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type device struct{}

func (device) Poll(wait bool) {}
func (device) Destroy()       {}

type queue struct{}

type adapter struct{}

// DeviceProvider is a GPU provider with no real device behind it. Register
// it with Canvas.SetContext(platform.ContextIDWebGL, ...) to construct GPU
// applications without hardware.
type DeviceProvider struct {
	Format gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*DeviceProvider)(nil)

func NewDeviceProvider() *DeviceProvider {
	return &DeviceProvider{Format: gputypes.TextureFormatBGRA8Unorm}
}

func (p *DeviceProvider) Device() gpucontext.Device             { return device{} }
func (p *DeviceProvider) Queue() gpucontext.Queue               { return queue{} }
func (p *DeviceProvider) Adapter() gpucontext.Adapter           { return adapter{} }
func (p *DeviceProvider) SurfaceFormat() gputypes.TextureFormat { return p.Format }
