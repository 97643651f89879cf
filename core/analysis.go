package core

import (
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// AssessVegetation grades drought stress from the frame's mean
// temperature excess over the vegetation baseline. Returns the risk
// tier and the delta in degrees Celsius.
func AssessVegetation(grid *model.ThermalGrid, baselineC float64) (model.VegetationRisk, float64) {
	flat := make([]float64, 0, model.GridSize*model.GridSize)
	for r := 0; r < model.GridSize; r++ {
		flat = append(flat, grid[r][:]...)
	}
	delta := stat.Mean(flat, nil) - baselineC

	switch {
	case delta > 2.0:
		return model.VegetationRiskHigh, delta
	case delta > 1.0:
		return model.VegetationRiskModerate, delta
	default:
		return model.VegetationRiskLow, delta
	}
}

// EstimateBurnScar sizes the burned area implied by the winning
// cluster's footprint at the sensor's ground sample distance, with the
// ecosystem recovery estimate graded by area.
func EstimateBurnScar(cluster model.HotCluster, gsdM float64) model.BurnScar {
	areaSqM := float64(cluster.PixelCount) * gsdM * gsdM
	hectares := areaSqM / 10000

	var recovery string
	switch {
	case hectares > 5:
		recovery = "4-6 years"
	case hectares > 2:
		recovery = "2-4 years"
	case hectares > 0.5:
		recovery = "1-3 years"
	default:
		recovery = "< 1 year"
	}

	return model.BurnScar{
		AreaSqM:      areaSqM,
		AreaHectares: hectares,
		Recovery:     recovery,
	}
}
