package core

// NoTime marks a timestamp that has not been latched yet.
const NoTime float64 = -1

// Clock tracks animation-frame timestamps (milliseconds, as handed to the
// frame callback by the platform).
type Clock struct {
	startTime float64
	lastTime  float64
}

func NewClock() *Clock {
	return &Clock{
		startTime: NoTime,
		lastTime:  NoTime,
	}
}

// Reset puts both timestamps back to NoTime. The next Tick latches them.
func (c *Clock) Reset() {
	c.startTime = NoTime
	c.lastTime = NoTime
}

// Tick advances the clock to timestamp and returns the milliseconds elapsed
// since the first tick and the seconds since the previous tick. The first
// tick after a Reset always returns (0, 0).
func (c *Clock) Tick(timestamp float64) (elapsedMsec float64, intervalSec float64) {
	if c.startTime == NoTime {
		c.startTime = timestamp
	}
	if c.lastTime == NoTime {
		c.lastTime = timestamp
	}
	elapsedMsec = timestamp - c.startTime
	intervalSec = (timestamp - c.lastTime) / 1000.0
	c.lastTime = timestamp
	return elapsedMsec, intervalSec
}

func (c *Clock) StartTime() float64 {
	return c.startTime
}

func (c *Clock) LastTime() float64 {
	return c.lastTime
}
