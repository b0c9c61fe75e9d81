package heatmap

import "fmt"

type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HeatColor maps an intensity in [0,1] onto the ramp
// blue, cyan, green, yellow, red. Values outside the range are clamped.
func HeatColor(v float64) RGB {
	switch {
	case v <= 0:
		v = 0
	case v > 1:
		v = 1
	}
	ramp := func(t float64) uint8 { return uint8(t * 255) }

	switch {
	case v < 0.25:
		return RGB{0, ramp(v / 0.25), 255}
	case v < 0.5:
		return RGB{0, 255, ramp(1 - (v-0.25)/0.25)}
	case v < 0.75:
		return RGB{ramp((v - 0.5) / 0.25), 255, 0}
	default:
		return RGB{255, ramp(1 - (v-0.75)/0.25), 0}
	}
}
