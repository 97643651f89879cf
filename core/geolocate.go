package core

import (
	"math"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// metresPerDegree approximates one degree of latitude at the Earth's
// surface; longitude is scaled by cos(latitude).
const metresPerDegree = 111320.0

// GeolocateFire converts a cluster's centroid, expressed in pixels from
// the frame centre, into a ground coordinate offset from the
// sub-satellite point using the sensor's ground sample distance.
func GeolocateFire(cluster model.HotCluster, ground model.GroundTrack, gsdM float64) model.FireLocation {
	centroidRow, centroidCol := cluster.Centroid()
	half := float64(model.GridSize) / 2

	dxM := (centroidCol - half) * gsdM
	dyM := (centroidRow - half) * gsdM

	latOffset := dyM / metresPerDegree
	lonOffset := dxM / (metresPerDegree * math.Cos(ground.Latitude*math.Pi/180))

	return model.FireLocation{
		Latitude:  ground.Latitude + latOffset,
		Longitude: ground.Longitude + lonOffset,
	}
}
