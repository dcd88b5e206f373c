package math

import (
	"fmt"
	m "math"

	"golang.org/x/exp/constraints"
)

// Vec2 represents a 2D vector in canvas space. Components are float64 to
// match the platform's pointer coordinates without rounding.
type Vec2 struct {
	X, Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{
		X: x,
		Y: y,
	}
}

// NewVec2Zero returns (0, 0).
func NewVec2Zero() Vec2 {
	return Vec2{X: 0.0, Y: 0.0}
}

// Add adds other to v and returns a copy of the result.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts other from v and returns a copy of the result.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Length() float64 {
	return m.Sqrt(v.LengthSquared())
}

// Distance returns the distance between v and other.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Compare reports whether every component of v and other differs by no
// more than tolerance.
func (v Vec2) Compare(other Vec2, tolerance float64) bool {
	if m.Abs(v.X-other.X) > tolerance {
		return false
	}
	if m.Abs(v.Y-other.Y) > tolerance {
		return false
	}
	return true
}

func (v Vec2) String() string {
	return fmt.Sprintf("[%g, %g]", v.X, v.Y)
}

// Clamp limits f to [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
