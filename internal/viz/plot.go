package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries draws values as an ASCII line chart. Series longer than width
// are downsampled by asciigraph.
func PlotSeries(values []int64, caption string, width, height int) string {
	data := make([]float64, len(values))
	for i, v := range values {
		data[i] = float64(v)
	}
	return PlotFloats(data, caption, width, height)
}

func PlotFloats(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
