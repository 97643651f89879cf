package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalsfoundry/wildfire-twin/model"
)

func testGrid() *model.ThermalGrid {
	var grid model.ThermalGrid
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			grid[r][c] = 27
		}
	}
	grid[10][10] = 58
	return &grid
}

func TestWriteThermalMap(t *testing.T) {
	dir := t.TempDir()
	w, err := NewThermalMapWriter(dir)
	if err != nil {
		t.Fatalf("NewThermalMapWriter: %v", err)
	}

	path, err := w.WriteThermalMap(testGrid(), 7)
	if err != nil {
		t.Fatalf("WriteThermalMap: %v", err)
	}
	if want := filepath.Join(dir, "thermal_map_0007.png"); path != want {
		t.Fatalf("path %q, want %q", path, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat rendered map: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("rendered map is empty")
	}

	// PNG magic bytes.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatal("output is not a PNG")
	}
}

func TestWriteThermalMapPerTickFiles(t *testing.T) {
	w, err := NewThermalMapWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewThermalMapWriter: %v", err)
	}

	first, err := w.WriteThermalMap(testGrid(), 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.WriteThermalMap(testGrid(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("ticks must render to distinct files")
	}
}

func TestNewThermalMapWriterCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "frames")
	if _, err := NewThermalMapWriter(dir); err != nil {
		t.Fatalf("NewThermalMapWriter: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestGridXYZAdapter(t *testing.T) {
	grid := testGrid()
	adapter := gridXYZ{grid}

	cols, rows := adapter.Dims()
	if cols != model.GridSize || rows != model.GridSize {
		t.Fatalf("dims (%d,%d), want (%d,%d)", cols, rows, model.GridSize, model.GridSize)
	}

	// Row 0 of the grid renders at the top of the plot.
	if got := adapter.Z(10, model.GridSize-1-10); got != 58 {
		t.Fatalf("Z mapping %v, want the hot pixel 58", got)
	}
}
