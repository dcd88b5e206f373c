//go:build !js

package desktop

import (
	"errors"
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/canvasapp/engine/core"
)

var errVulkanUnsupported = errors.New("vulkan is not supported")

var end = "\x00"

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// surface copies 2D frames into a Vulkan swapchain and exposes the device
// as the window's GPU context.
type surface struct {
	window *glfw.Window

	instance vk.Instance
	handle   vk.Surface
	physical vk.PhysicalDevice
	device   vk.Device
	queue    vk.Queue
	family   uint32
	pool     vk.CommandPool
	cmd      vk.CommandBuffer

	swapchain vk.Swapchain
	format    vk.Format
	extent    vk.Extent2D
	images    []vk.Image
	stale     bool

	staging     vk.Buffer
	memory      vk.DeviceMemory
	mapped      unsafe.Pointer
	stagingSize vk.DeviceSize

	imageAvailable vk.Semaphore
	copyComplete   vk.Semaphore
	inFlight       vk.Fence

	destroyed bool
}

var _ gpucontext.DeviceProvider = (*surface)(nil)

func newSurface(window *glfw.Window, applicationName string) (*surface, error) {
	if !glfw.VulkanSupported() {
		return nil, errVulkanUnsupported
	}
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return nil, errVulkanUnsupported
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return nil, err
	}

	s := &surface{window: window}
	if err := s.createInstance(applicationName); err != nil {
		s.destroy()
		return nil, err
	}
	if err := s.createDevice(); err != nil {
		s.destroy()
		return nil, err
	}
	if err := s.createSyncObjects(); err != nil {
		s.destroy()
		return nil, err
	}
	if err := s.createSwapchain(); err != nil {
		s.destroy()
		return nil, err
	}
	return s, nil
}

func (s *surface) createInstance(applicationName string) error {
	extensions := s.window.GetRequiredInstanceExtensions()
	createInfo := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(applicationName),
			PEngineName:        safeString("canvasapp"),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}
	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return err
	}
	s.instance = instance

	handle, err := s.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return fmt.Errorf("failed to create window surface: %w", err)
	}
	s.handle = vk.SurfaceFromPointer(handle)
	return nil
}

// createDevice picks the first physical device with a queue family that can
// both copy and present to the window.
func (s *surface) createDevice() error {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(s.instance, &count, nil)); err != nil {
		return err
	}
	if count == 0 {
		return errors.New("no device with vulkan support found")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(s.instance, &count, devices)); err != nil {
		return err
	}

	found := false
	for _, dev := range devices {
		if family, ok := s.presentFamily(dev); ok {
			s.physical, s.family, found = dev, family, true
			break
		}
	}
	if !found {
		return errors.New("no device can present to the window")
	}

	createInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: s.family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   1,
		PpEnabledExtensionNames: safeStrings([]string{vk.KhrSwapchainExtensionName}),
	}
	var device vk.Device
	if err := vk.Error(vk.CreateDevice(s.physical, &createInfo, nil, &device)); err != nil {
		return fmt.Errorf("failed to create logical device: %w", err)
	}
	s.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(s.device, s.family, 0, &queue)
	s.queue = queue

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: s.family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(s.device, &poolInfo, nil, &pool)); err != nil {
		return fmt.Errorf("failed to create command pool: %w", err)
	}
	s.pool = pool

	buffers := make([]vk.CommandBuffer, 1)
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        s.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	if err := vk.Error(vk.AllocateCommandBuffers(s.device, &allocInfo, buffers)); err != nil {
		return fmt.Errorf("failed to allocate command buffer: %w", err)
	}
	s.cmd = buffers[0]
	return nil
}

func (s *surface) presentFamily(dev vk.PhysicalDevice) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, families)
	for i := range families {
		families[i].Deref()
		if vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueGraphicsBit == 0 {
			continue
		}
		var supported vk.Bool32
		if res := vk.GetPhysicalDeviceSurfaceSupport(dev, uint32(i), s.handle, &supported); res != vk.Success {
			continue
		}
		if supported == vk.True {
			return uint32(i), true
		}
	}
	return 0, false
}

func (s *surface) createSyncObjects() error {
	semaphoreInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	if err := vk.Error(vk.CreateSemaphore(s.device, &semaphoreInfo, nil, &s.imageAvailable)); err != nil {
		return err
	}
	if err := vk.Error(vk.CreateSemaphore(s.device, &semaphoreInfo, nil, &s.copyComplete)); err != nil {
		return err
	}
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	return vk.Error(vk.CreateFence(s.device, &fenceInfo, nil, &s.inFlight))
}

// chooseFormat prefers BGRA, the layout the 2D frames are converted to.
func chooseFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, bool) {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Unorm {
			return f, true
		}
	}
	for _, f := range formats {
		if f.Format == vk.FormatR8g8b8a8Unorm {
			return f, true
		}
	}
	return vk.SurfaceFormat{}, false
}

func (s *surface) createSwapchain() error {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(s.physical, s.handle, &caps)); err != nil {
		return err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	if vk.ImageUsageFlagBits(caps.SupportedUsageFlags)&vk.ImageUsageTransferDstBit == 0 {
		return errors.New("swapchain images cannot be copied to")
	}

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(s.physical, s.handle, &formatCount, nil)); err != nil {
		return err
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(s.physical, s.handle, &formatCount, formats)); err != nil {
		return err
	}
	for i := range formats {
		formats[i].Deref()
	}
	format, ok := chooseFormat(formats)
	if !ok {
		return errors.New("no 8-bit unorm surface format")
	}

	fbWidth, fbHeight := s.window.GetFramebufferSize()
	extent := vk.Extent2D{Width: uint32(fbWidth), Height: uint32(fbHeight)}
	if caps.CurrentExtent.Width != math.MaxUint32 {
		extent = caps.CurrentExtent
	}
	extent.Width = clampExtent(extent.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width)
	extent.Height = clampExtent(extent.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height)
	s.extent = extent
	s.format = format.Format
	if extent.Width == 0 || extent.Height == 0 {
		// Minimized: try again once the window has a size.
		s.stale = true
		return nil
	}

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.handle,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageTransferDstBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
	}
	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(s.device, &createInfo, nil, &swapchain)); err != nil {
		return fmt.Errorf("failed to create swapchain: %w", err)
	}
	s.swapchain = swapchain

	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(s.device, s.swapchain, &count, nil)); err != nil {
		return err
	}
	s.images = make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(s.device, s.swapchain, &count, s.images)); err != nil {
		return err
	}

	if err := s.createStaging(vk.DeviceSize(extent.Width) * vk.DeviceSize(extent.Height) * 4); err != nil {
		return err
	}
	s.stale = false
	return nil
}

func clampExtent(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

// createStaging allocates the host-visible buffer frames are copied through.
func (s *surface) createStaging(size vk.DeviceSize) error {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(s.device, &bufferInfo, nil, &buffer)); err != nil {
		return fmt.Errorf("failed to create staging buffer: %w", err)
	}
	s.staging = buffer

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(s.device, buffer, &reqs)
	reqs.Deref()

	index, ok := s.hostVisibleMemory(reqs.MemoryTypeBits)
	if !ok {
		return errors.New("no host visible memory type")
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: index,
	}
	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(s.device, &allocInfo, nil, &memory)); err != nil {
		return fmt.Errorf("failed to allocate staging memory: %w", err)
	}
	s.memory = memory
	if err := vk.Error(vk.BindBufferMemory(s.device, buffer, memory, 0)); err != nil {
		return err
	}
	var mapped unsafe.Pointer
	if err := vk.Error(vk.MapMemory(s.device, memory, 0, size, 0, &mapped)); err != nil {
		return fmt.Errorf("failed to map staging memory: %w", err)
	}
	s.mapped = mapped
	s.stagingSize = size
	return nil
}

func (s *surface) hostVisibleMemory(typeBits uint32) (uint32, bool) {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(s.physical, &props)
	props.Deref()
	want := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		props.MemoryTypes[i].Deref()
		if typeBits&(1<<i) != 0 && props.MemoryTypes[i].PropertyFlags&want == want {
			return i, true
		}
	}
	return 0, false
}

func (s *surface) destroySwapchain() {
	if s.mapped != nil {
		vk.UnmapMemory(s.device, s.memory)
		s.mapped = nil
	}
	if s.staging != nil {
		vk.DestroyBuffer(s.device, s.staging, nil)
		s.staging = nil
	}
	if s.memory != nil {
		vk.FreeMemory(s.device, s.memory, nil)
		s.memory = nil
	}
	if s.swapchain != nil {
		vk.DestroySwapchain(s.device, s.swapchain, nil)
		s.swapchain = nil
	}
	s.images = nil
	s.stagingSize = 0
}

func (s *surface) recreate() error {
	vk.DeviceWaitIdle(s.device)
	s.destroySwapchain()
	return s.createSwapchain()
}

// resized marks the swapchain for recreation before the next present.
func (s *surface) resized() {
	s.stale = true
}

// present copies img into the next swapchain image. Pixels outside img are
// cleared to black.
func (s *surface) present(img *image.RGBA) error {
	if s.destroyed {
		return nil
	}
	if s.stale {
		if err := s.recreate(); err != nil {
			return err
		}
		if s.stale {
			return nil
		}
	}

	fences := []vk.Fence{s.inFlight}
	if err := vk.Error(vk.WaitForFences(s.device, 1, fences, vk.True, math.MaxUint64)); err != nil {
		return err
	}

	var index uint32
	switch res := vk.AcquireNextImage(s.device, s.swapchain, math.MaxUint64, s.imageAvailable, vk.NullFence, &index); res {
	case vk.Success, vk.Suboptimal:
	case vk.ErrorOutOfDate:
		s.stale = true
		return nil
	default:
		return fmt.Errorf("failed to acquire swapchain image: %w", vk.Error(res))
	}
	if err := vk.Error(vk.ResetFences(s.device, 1, fences)); err != nil {
		return err
	}

	dst := unsafe.Slice((*byte)(s.mapped), int(s.stagingSize))
	copyPixels(dst, int(s.extent.Width), int(s.extent.Height), img, s.format == vk.FormatB8g8r8a8Unorm)

	if err := s.record(s.images[index]); err != nil {
		return err
	}

	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{s.imageAvailable},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{s.cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{s.copyComplete},
	}
	if err := vk.Error(vk.QueueSubmit(s.queue, 1, []vk.SubmitInfo{submit}, s.inFlight)); err != nil {
		return fmt.Errorf("failed to submit copy: %w", err)
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.copyComplete},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.swapchain},
		PImageIndices:      []uint32{index},
	}
	switch res := vk.QueuePresent(s.queue, &presentInfo); res {
	case vk.Success:
	case vk.ErrorOutOfDate, vk.Suboptimal:
		s.stale = true
	default:
		return fmt.Errorf("failed to present swapchain image: %w", vk.Error(res))
	}
	return nil
}

func (s *surface) record(target vk.Image) error {
	if err := vk.Error(vk.ResetCommandBuffer(s.cmd, 0)); err != nil {
		return err
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(s.cmd, &beginInfo)); err != nil {
		return err
	}

	s.transition(target, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal,
		0, vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit))

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: s.extent.Width, Height: s.extent.Height, Depth: 1},
	}
	vk.CmdCopyBufferToImage(s.cmd, s.staging, target, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})

	s.transition(target, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc,
		vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessMemoryReadBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit))

	return vk.Error(vk.EndCommandBuffer(s.cmd))
}

func (s *surface) transition(target vk.Image, from, to vk.ImageLayout, srcAccess, dstAccess vk.AccessFlags, srcStage, dstStage vk.PipelineStageFlags) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               target,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	vk.CmdPipelineBarrier(s.cmd, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

// copyPixels writes src into a tightly packed width*height buffer, swapping
// red and blue when bgra is set. Pixels src does not cover are zeroed.
func copyPixels(dst []byte, width, height int, src *image.RGBA, bgra bool) {
	b := src.Bounds()
	for y := 0; y < height; y++ {
		row := dst[y*width*4 : (y+1)*width*4]
		n := 0
		if y < b.Dy() {
			n = b.Dx()
			if n > width {
				n = width
			}
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(row, src.Pix[off:off+n*4])
			if bgra {
				for i := 0; i < n*4; i += 4 {
					row[i], row[i+2] = row[i+2], row[i]
				}
			}
		}
		clear(row[n*4:])
	}
}

func (s *surface) destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.device != nil {
		vk.DeviceWaitIdle(s.device)
		s.destroySwapchain()
		if s.inFlight != nil {
			vk.DestroyFence(s.device, s.inFlight, nil)
		}
		if s.copyComplete != nil {
			vk.DestroySemaphore(s.device, s.copyComplete, nil)
		}
		if s.imageAvailable != nil {
			vk.DestroySemaphore(s.device, s.imageAvailable, nil)
		}
		if s.pool != nil {
			vk.DestroyCommandPool(s.device, s.pool, nil)
		}
		vk.DestroyDevice(s.device, nil)
	}
	if s.handle != nil {
		vk.DestroySurface(s.instance, s.handle, nil)
	}
	if s.instance != nil {
		vk.DestroyInstance(s.instance, nil)
	}
	core.LogDebug("vulkan surface destroyed")
}

type vulkanDevice struct {
	s *surface
}

func (d vulkanDevice) Poll(wait bool) {
	if wait && !d.s.destroyed {
		vk.DeviceWaitIdle(d.s.device)
	}
}

func (d vulkanDevice) Destroy() {
	d.s.destroy()
}

type vulkanQueue struct {
	vk.Queue
}

type vulkanAdapter struct {
	vk.PhysicalDevice
}

func (s *surface) Device() gpucontext.Device   { return vulkanDevice{s} }
func (s *surface) Queue() gpucontext.Queue     { return vulkanQueue{s.queue} }
func (s *surface) Adapter() gpucontext.Adapter { return vulkanAdapter{s.physical} }

func (s *surface) SurfaceFormat() gputypes.TextureFormat {
	return surfaceFormat(s.format)
}

func surfaceFormat(format vk.Format) gputypes.TextureFormat {
	switch format {
	case vk.FormatB8g8r8a8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case vk.FormatR8g8b8a8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatUndefined
}
