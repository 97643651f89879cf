package model

import "time"

// VegetationRisk grades drought stress from the frame's mean
// temperature delta against the vegetation baseline.
type VegetationRisk string

const (
	VegetationRiskLow      VegetationRisk = "Low"
	VegetationRiskModerate VegetationRisk = "Moderate"
	VegetationRiskHigh     VegetationRisk = "High (Drought Stress)"
)

// BurnScar estimates the burned area implied by the winning cluster's
// footprint at the mission's ground sample distance.
type BurnScar struct {
	AreaSqM      float64 `json:"area_sq_m"`
	AreaHectares float64 `json:"area_hectares"`
	Recovery     string  `json:"recovery"`
}

// GroundTrack is the sub-satellite point for a tick, as supplied by the
// orbit position source.
type GroundTrack struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// FireLocation is the geolocated centroid of the winning cluster.
type FireLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TickSnapshot is the immutable per-tick record committed by the run
// loop and read by the dashboard, exporter, and ledger. Each snapshot
// is internally consistent; consumers always see the last committed
// tick as a whole.
type TickSnapshot struct {
	Tick      int       `json:"tick"`
	Timestamp time.Time `json:"timestamp"`

	Ground GroundTrack `json:"ground"`

	Grid     ThermalGrid  `json:"grid"`
	Clusters []HotCluster `json:"clusters"`

	Confidence float64      `json:"confidence"`
	Trigger    TriggerState `json:"trigger"`

	VegetationRisk  VegetationRisk `json:"vegetation_risk"`
	VegetationDelta float64        `json:"vegetation_delta_c"`
	BurnScar        *BurnScar      `json:"burn_scar,omitempty"`
	Fire            *FireLocation  `json:"fire,omitempty"`
}

// FireDetected reports whether this tick produced at least one
// surviving hot cluster.
func (s TickSnapshot) FireDetected() bool {
	return len(s.Clusters) > 0
}
