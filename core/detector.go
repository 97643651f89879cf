package core

import (
	"sort"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// AnomalyDetector turns a raw thermal frame into zero or more hot
// clusters. Three stages: a clamped-window mean filter to suppress
// isolated noise spikes, thresholding of the filtered frame, and
// 8-neighbourhood connected-component clustering with a minimum
// component size. 8-adjacency is used so diagonal anomaly footprints do
// not split.
type AnomalyDetector struct {
	cfg DetectorConfig
}

// NewAnomalyDetector builds a detector. The config must already be
// validated.
func NewAnomalyDetector(cfg DetectorConfig) *AnomalyDetector {
	return &AnomalyDetector{cfg: cfg}
}

// Detect returns the surviving clusters in deterministic order:
// ascending by top-left pixel, row then column. Each pixel belongs to
// at most one cluster. Cluster temperatures are derived from the
// original grid, not the filtered one.
func (d *AnomalyDetector) Detect(grid *model.ThermalGrid) []model.HotCluster {
	filtered := d.meanFilter(grid)

	var hot [model.GridSize][model.GridSize]bool
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			hot[r][c] = filtered[r][c] >= d.cfg.TempThresholdC
		}
	}

	return d.cluster(&hot, grid)
}

// meanFilter averages each pixel over its window neighbourhood, with
// the window clamped at the frame edges.
func (d *AnomalyDetector) meanFilter(grid *model.ThermalGrid) model.ThermalGrid {
	half := d.cfg.NoiseFilterWindow / 2
	if half == 0 {
		return *grid
	}

	var out model.ThermalGrid
	for r := 0; r < model.GridSize; r++ {
		rLo, rHi := clampWindow(r, half)
		for c := 0; c < model.GridSize; c++ {
			cLo, cHi := clampWindow(c, half)
			sum, n := 0.0, 0
			for rr := rLo; rr <= rHi; rr++ {
				for cc := cLo; cc <= cHi; cc++ {
					sum += grid[rr][cc]
					n++
				}
			}
			out[r][c] = sum / float64(n)
		}
	}
	return out
}

func clampWindow(i, half int) (lo, hi int) {
	lo = i - half
	if lo < 0 {
		lo = 0
	}
	hi = i + half
	if hi > model.GridSize-1 {
		hi = model.GridSize - 1
	}
	return lo, hi
}

// cluster groups candidate pixels into 8-connected components using a
// breadth-first flood fill in row-major scan order, which makes cluster
// ordering deterministic by top-left pixel.
func (d *AnomalyDetector) cluster(hot *[model.GridSize][model.GridSize]bool, grid *model.ThermalGrid) []model.HotCluster {
	var visited [model.GridSize][model.GridSize]bool
	var clusters []model.HotCluster

	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			if !hot[r][c] || visited[r][c] {
				continue
			}

			var pixels []model.Pixel
			queue := []model.Pixel{{Row: r, Col: c}}
			visited[r][c] = true

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				pixels = append(pixels, p)

				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if dr == 0 && dc == 0 {
							continue
						}
						nr, nc := p.Row+dr, p.Col+dc
						if nr < 0 || nr >= model.GridSize || nc < 0 || nc >= model.GridSize {
							continue
						}
						if !hot[nr][nc] || visited[nr][nc] {
							continue
						}
						visited[nr][nc] = true
						queue = append(queue, model.Pixel{Row: nr, Col: nc})
					}
				}
			}

			if len(pixels) < d.cfg.MinClusterSize {
				continue
			}
			sortPixels(pixels)
			clusters = append(clusters, model.NewHotCluster(pixels, grid))
		}
	}
	return clusters
}

// sortPixels orders member pixels row-major so cluster contents are
// stable regardless of BFS discovery order.
func sortPixels(pixels []model.Pixel) {
	sort.Slice(pixels, func(i, j int) bool {
		return pixels[i].Less(pixels[j])
	})
}
