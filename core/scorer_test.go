package core

import (
	"testing"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// makeCluster builds a cluster of n pixels at a uniform temperature,
// anchored at the given row.
func makeCluster(t *testing.T, row, n int, temp float64) model.HotCluster {
	t.Helper()
	grid := uniformGrid(temp)
	pixels := make([]model.Pixel, 0, n)
	for i := 0; i < n; i++ {
		pixels = append(pixels, model.Pixel{Row: row + i/model.GridSize, Col: i % model.GridSize})
	}
	return model.NewHotCluster(pixels, &grid)
}

func testScorer() *ConfidenceScorer {
	return NewConfidenceScorer(ScorerConfig{
		SizeWeight:       0.6,
		IntensityWeight:  0.4,
		MaxClusterPixels: 64,
		MaxExcessC:       15,
	}, 45)
}

func TestScore_EmptyIsZero(t *testing.T) {
	if got := testScorer().Score(nil); got != 0 {
		t.Fatalf("empty cluster set scored %v, want 0", got)
	}
}

func TestScore_MonotonicInSize(t *testing.T) {
	s := testScorer()
	small := s.Score([]model.HotCluster{makeCluster(t, 0, 8, 50)})
	large := s.Score([]model.HotCluster{makeCluster(t, 0, 16, 50)})
	if large <= small {
		t.Fatalf("larger cluster scored %v, not above smaller cluster's %v", large, small)
	}
}

func TestScore_MonotonicInIntensity(t *testing.T) {
	s := testScorer()
	cool := s.Score([]model.HotCluster{makeCluster(t, 0, 8, 48)})
	hotter := s.Score([]model.HotCluster{makeCluster(t, 0, 8, 55)})
	if hotter <= cool {
		t.Fatalf("hotter cluster scored %v, not above cooler cluster's %v", hotter, cool)
	}
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	s := testScorer()
	// Saturates both terms well past their normalizers.
	got := s.Score([]model.HotCluster{makeCluster(t, 0, 200, 500)})
	if got != 1 {
		t.Fatalf("saturated cluster scored %v, want exactly 1", got)
	}

	// Mean temperature below the threshold drives the intensity term
	// negative; it must clamp at zero, not subtract.
	faint := s.Score([]model.HotCluster{makeCluster(t, 0, 1, 30)})
	if faint < 0 || faint > 1 {
		t.Fatalf("faint cluster scored %v, outside [0,1]", faint)
	}
}

func TestPickWinningCluster_TieBreaks(t *testing.T) {
	bySize := PickWinningCluster([]model.HotCluster{
		makeCluster(t, 0, 4, 50),
		makeCluster(t, 1, 9, 50),
	})
	if bySize.PixelCount != 9 {
		t.Fatalf("winner has %d pixels, want the 9-pixel cluster", bySize.PixelCount)
	}

	byMean := PickWinningCluster([]model.HotCluster{
		makeCluster(t, 0, 4, 50),
		makeCluster(t, 1, 4, 58),
	})
	if byMean.MeanTempC != 58 {
		t.Fatalf("winner mean %v, want the hotter 58", byMean.MeanTempC)
	}

	byTopLeft := PickWinningCluster([]model.HotCluster{
		makeCluster(t, 7, 4, 50),
		makeCluster(t, 2, 4, 50),
	})
	if byTopLeft.TopLeft.Row != 2 {
		t.Fatalf("winner top-left row %d, want 2", byTopLeft.TopLeft.Row)
	}
}

func TestScore_DefaultWeightsReferenceValue(t *testing.T) {
	s := testScorer()
	// 16 pixels of 64 -> size 0.25; mean 52.5 at threshold 45 over
	// excess 15 -> intensity 0.5; 0.6*0.25 + 0.4*0.5 = 0.35.
	got := s.Score([]model.HotCluster{makeCluster(t, 0, 16, 52.5)})
	want := 0.35
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("score %v, want %v", got, want)
	}
}
