// Package palette assigns chart colors by series index.
package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Base is the fixed palette used for the first len(Base) series.
var Base = []string{
	"#012a4a",
	"#014f86",
	"#2a6f97",
	"#013a63",
	"#01497c",
	"#2c7da0",
	"#468faf",
	"#61a5c2",
	"#89c2d9",
	"#a9d6e5",
}

const (
	hue        = 200
	saturation = 60
)

// ColorFor returns the CSS color for series index. Indexes past the base
// palette get hsl(200, 60%, L%) with L = (index-9)*10. Negative indexes are
// treated as 0.
func ColorFor(index int) string {
	index = max(index, 0)
	if index < len(Base) {
		return Base[index]
	}
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, lightness(index))
}

// Hex returns the color for index as #rrggbb. Synthesized entries have
// their lightness clamped to 100%.
func Hex(index int) string {
	index = max(index, 0)
	if index < len(Base) {
		return Base[index]
	}
	l := min(lightness(index), 100)
	return colorful.Hsl(hue, saturation/100.0, float64(l)/100).Hex()
}

func lightness(index int) int {
	return (index - len(Base) + 1) * 10
}
