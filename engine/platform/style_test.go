package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSSLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "2px", want: 2},
		{in: "0px", want: 0},
		{in: "2.7px", want: 2},
		{in: "  12px", want: 12},
		{in: "-3px", want: -3},
		{in: "+4px", want: 4},
		{in: "15", want: 15},
		{in: "", want: 0},
		{in: "px", want: 0},
		{in: "auto", want: 0},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			assert.Equal(t, test.want, ParseCSSLength(test.in))
		})
	}
}

func TestComputedStyleOffsets(t *testing.T) {
	s := ComputedStyle{
		BorderLeftWidth: "2px",
		BorderTopWidth:  "1px",
		PaddingLeft:     "3px",
		PaddingTop:      "4.5px",
	}
	left, top := s.Offsets()
	assert.Equal(t, 5.0, left)
	assert.Equal(t, 5.0, top)
}
