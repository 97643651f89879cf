package core

import (
	"github.com/signalsfoundry/wildfire-twin/model"
)

// ConfidenceScorer reduces a tick's cluster set to a single scalar in
// [0,1]. Only the largest cluster contributes: its pixel count is
// normalized against MaxClusterPixels and its mean temperature against
// MaxExcessC over the detection threshold, then the two terms combine
// by the configured weights.
type ConfidenceScorer struct {
	cfg        ScorerConfig
	thresholdC float64
}

// NewConfidenceScorer builds a scorer. thresholdC is the detector's
// temperature threshold, the zero point of the intensity term. The
// config must already be validated.
func NewConfidenceScorer(cfg ScorerConfig, thresholdC float64) *ConfidenceScorer {
	return &ConfidenceScorer{cfg: cfg, thresholdC: thresholdC}
}

// Score returns 0 for an empty cluster set, otherwise the weighted
// combination for the winning cluster, clamped to [0,1]. Deterministic
// given identical clusters.
func (s *ConfidenceScorer) Score(clusters []model.HotCluster) float64 {
	if len(clusters) == 0 {
		return 0
	}

	winner := PickWinningCluster(clusters)

	sizeTerm := clamp01(float64(winner.PixelCount) / float64(s.cfg.MaxClusterPixels))
	intensityTerm := clamp01((winner.MeanTempC - s.thresholdC) / s.cfg.MaxExcessC)

	return clamp01(s.cfg.SizeWeight*sizeTerm + s.cfg.IntensityWeight*intensityTerm)
}

// PickWinningCluster selects the largest cluster by pixel count,
// breaking ties by higher mean temperature, then by smallest top-left
// pixel. The same winner feeds scoring, geolocation, and burn-scar
// analysis.
func PickWinningCluster(clusters []model.HotCluster) model.HotCluster {
	winner := clusters[0]
	for _, c := range clusters[1:] {
		switch {
		case c.PixelCount > winner.PixelCount:
			winner = c
		case c.PixelCount == winner.PixelCount && c.MeanTempC > winner.MeanTempC:
			winner = c
		case c.PixelCount == winner.PixelCount && c.MeanTempC == winner.MeanTempC &&
			c.TopLeft.Less(winner.TopLeft):
			winner = c
		}
	}
	return winner
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
