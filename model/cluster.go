package model

// HotCluster is a connected group of grid cells whose filtered
// temperature exceeded the detection threshold. Derived attributes are
// computed once at construction from the original (unfiltered) grid and
// the cluster is never mutated afterwards.
type HotCluster struct {
	// Pixels lists member cells in ascending row-major order.
	Pixels []Pixel `json:"pixels"`

	// TopLeft is the first pixel in row-major order; it identifies the
	// cluster for deterministic ordering and tie-breaks.
	TopLeft Pixel `json:"top_left"`

	PixelCount int     `json:"pixel_count"`
	MeanTempC  float64 `json:"mean_temp_c"`
	PeakTempC  float64 `json:"peak_temp_c"`
}

// NewHotCluster derives the cluster attributes from the member pixels
// and the grid the detection ran against. Pixels must already be sorted
// in row-major order and non-empty.
func NewHotCluster(pixels []Pixel, grid *ThermalGrid) HotCluster {
	sum := 0.0
	peak := grid.At(pixels[0].Row, pixels[0].Col)
	for _, p := range pixels {
		t := grid.At(p.Row, p.Col)
		sum += t
		if t > peak {
			peak = t
		}
	}
	return HotCluster{
		Pixels:     pixels,
		TopLeft:    pixels[0],
		PixelCount: len(pixels),
		MeanTempC:  sum / float64(len(pixels)),
		PeakTempC:  peak,
	}
}

// Centroid returns the mean (row, col) of the member pixels as floats.
// Used for fire geolocation relative to the frame centre.
func (c HotCluster) Centroid() (row, col float64) {
	for _, p := range c.Pixels {
		row += float64(p.Row)
		col += float64(p.Col)
	}
	n := float64(len(c.Pixels))
	return row / n, col / n
}
