// Package export renders committed thermal frames to PNG heatmaps in
// an output directory, mirroring what the dashboard shows.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// Display range of the thermal colormap in degrees Celsius: healthy
// vegetation to active fire.
const (
	TempMinC = 20.0
	TempMaxC = 60.0
)

// ThermalMapWriter writes one PNG per tick into its output directory.
type ThermalMapWriter struct {
	outputDir string
	colors    palette.Palette
}

// NewThermalMapWriter creates the output directory if needed.
func NewThermalMapWriter(outputDir string) (*ThermalMapWriter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &ThermalMapWriter{
		outputDir: outputDir,
		colors:    palette.Heat(16, 255),
	}, nil
}

// WriteThermalMap renders the grid as a heatmap PNG named by tick and
// returns the written path.
func (w *ThermalMapWriter) WriteThermalMap(grid *model.ThermalGrid, tick int) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Thermal IR Map | Tick %d", tick)
	p.X.Label.Text = "Pixel X"
	p.Y.Label.Text = "Pixel Y"

	hm := plotter.NewHeatMap(gridXYZ{grid}, w.colors)
	hm.Min = TempMinC
	hm.Max = TempMaxC
	p.Add(hm)

	path := filepath.Join(w.outputDir, fmt.Sprintf("thermal_map_%04d.png", tick))
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save thermal map: %w", err)
	}
	return path, nil
}

// gridXYZ adapts a ThermalGrid to the plotter.GridXYZ interface. Row 0
// is drawn at the top, matching sensor readout order.
type gridXYZ struct {
	g *model.ThermalGrid
}

func (g gridXYZ) Dims() (c, r int) { return model.GridSize, model.GridSize }
func (g gridXYZ) X(c int) float64  { return float64(c) }
func (g gridXYZ) Y(r int) float64  { return float64(r) }

func (g gridXYZ) Z(c, r int) float64 {
	return g.g.At(model.GridSize-1-r, c)
}
