package platform

// ParseCSSLength reads the leading integer of a CSS length the way
// parseInt(s, 10) does: "2px" is 2, "2.7px" is 2, "-3px" is -3. A value
// without leading digits yields 0.
func ParseCSSLength(s string) float64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\f') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0.0
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + float64(s[i]-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// Offsets returns the left and top border+padding of the style in pixels.
func (s ComputedStyle) Offsets() (left, top float64) {
	left = ParseCSSLength(s.BorderLeftWidth) + ParseCSSLength(s.PaddingLeft)
	top = ParseCSSLength(s.BorderTopWidth) + ParseCSSLength(s.PaddingTop)
	return left, top
}
