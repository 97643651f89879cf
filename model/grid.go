package model

// GridSize is the fixed edge length of every thermal frame. The sensor
// model always images a GridSize x GridSize patch; the spatial scale of
// one pixel is documented by the mission's ground sample distance.
const GridSize = 64

// ThermalGrid is one synthesized thermal-infrared frame in degrees
// Celsius. It is a value type on purpose: assigning or embedding a grid
// copies it, so a committed snapshot can never be mutated through an
// alias held by the pipeline.
type ThermalGrid [GridSize][GridSize]float64

// At returns the temperature at (row, col).
func (g *ThermalGrid) At(row, col int) float64 {
	return g[row][col]
}

// Pixel addresses a single grid cell.
type Pixel struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Less orders pixels ascending by row, then column. This is the
// tie-break order used everywhere clusters must be deterministic.
func (p Pixel) Less(other Pixel) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}
