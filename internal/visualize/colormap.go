package visualize

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized intensity in [0, 1] to a color. The named maps
// are sequential: low intensity is near white, high intensity is saturated.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Sequential colormap anchors, light to dark.
var colormaps = map[string][]string{
	"Reds":    {"#fff5f0", "#fcbba1", "#fb6a4a", "#cb181d", "#67000d"},
	"Blues":   {"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"},
	"Greens":  {"#f7fcf5", "#c7e9c0", "#74c476", "#238b45", "#00441b"},
	"Oranges": {"#fff5eb", "#fdd0a2", "#fd8d3c", "#d94801", "#7f2704"},
	"Purples": {"#fcfbfd", "#dadaeb", "#9e9ac8", "#6a51a3", "#3f007d"},
	"Greys":   {"#ffffff", "#d9d9d9", "#969696", "#525252", "#000000"},
}

// ColormapByName looks up a named sequential colormap. Names are matched
// case-insensitively.
func ColormapByName(name string) (*Colormap, error) {
	for known, hexes := range colormaps {
		if !strings.EqualFold(known, name) {
			continue
		}
		stops := make([]colorful.Color, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				return nil, fmt.Errorf("colormap %s: %w", known, err)
			}
			stops[i] = c
		}
		return &Colormap{name: known, stops: stops}, nil
	}
	return nil, fmt.Errorf("unknown colormap %q", name)
}

// Name returns the colormap name.
func (c *Colormap) Name() string {
	return c.name
}

// Sample returns the color at intensity t, clamped to [0, 1]. Interpolation
// between anchors happens in Lab space for perceptually even gradients.
func (c *Colormap) Sample(t float64) colorful.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segments := len(c.stops) - 1
	scaled := t * float64(segments)
	idx := int(scaled)
	if idx >= segments {
		idx = segments - 1
	}
	frac := scaled - float64(idx)

	return c.stops[idx].BlendLab(c.stops[idx+1], frac).Clamped()
}

// SampleRGB returns the sampled color as 8-bit channels.
func (c *Colormap) SampleRGB(t float64) (r, g, b uint8) {
	return c.Sample(t).RGB255()
}
