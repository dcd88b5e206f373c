package core

import "github.com/spaghettifunk/canvasapp/engine/containers"

const AVG_COUNT int = 30

// FrameMetrics keeps a rolling frame-time average and a frames-per-second
// counter fed by the animation loop.
type FrameMetrics struct {
	frameTimes         *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one frame that took intervalSec seconds.
func (m *FrameMetrics) Update(intervalSec float64) {
	frameMS := intervalSec * 1000.0
	m.frameTimes.Push(frameMS)

	var sum float64
	m.frameTimes.Each(func(v float64) { sum += v })
	m.msAvg = sum / float64(m.frameTimes.Len())

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.frames++
	m.totalFrames++
}

// Reset forgets every recorded frame.
func (m *FrameMetrics) Reset() {
	m.frameTimes.Clear()
	m.msAvg = 0
	m.frames = 0
	m.accumulatedFrameMS = 0
	m.fps = 0
	m.totalFrames = 0
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime returns the average frame time in milliseconds.
func (m *FrameMetrics) FrameTime() float64 {
	return m.msAvg
}

func (m *FrameMetrics) TotalFrames() uint64 {
	return m.totalFrames
}

func (m *FrameMetrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
