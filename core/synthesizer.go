package core

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// FrameSynthesizer produces one thermal frame per tick: ambient
// baseline plus per-pixel Gaussian sensor noise, with an optional
// radially decaying fire anomaly injected on top.
//
// The random source is injected so runs are exactly reproducible from a
// seed. The anomaly's decay profile is deterministic given its centre,
// peak, and radius; the only randomness inside its footprint is the
// base sensor noise.
type FrameSynthesizer struct {
	cfg   SensorConfig
	rng   *rand.Rand
	noise distuv.Normal
}

// NewFrameSynthesizer builds a synthesizer over the given seedable
// source. The config must already be validated.
func NewFrameSynthesizer(cfg SensorConfig, src rand.Source) *FrameSynthesizer {
	return &FrameSynthesizer{
		cfg: cfg,
		rng: rand.New(src),
		noise: distuv.Normal{
			Mu:    0,
			Sigma: cfg.NoiseSigmaC,
			Src:   src,
		},
	}
}

// Synthesize returns the frame for a tick. The ground track selects the
// imaged tile, which only biases where an injected anomaly lands; it
// never changes the noise or decay model. Synthesis always succeeds.
func (fs *FrameSynthesizer) Synthesize(tick int, ground model.GroundTrack) model.ThermalGrid {
	var grid model.ThermalGrid
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			grid[r][c] = fs.cfg.BaseTempC + fs.sampleNoise()
		}
	}

	if fs.cfg.AnomalyProbability > 0 && fs.rng.Float64() < fs.cfg.AnomalyProbability {
		fs.injectAnomaly(&grid, ground)
	}
	return grid
}

func (fs *FrameSynthesizer) sampleNoise() float64 {
	if fs.cfg.NoiseSigmaC == 0 {
		return 0
	}
	return fs.noise.Rand()
}

// injectAnomaly adds one fire bump. Amplitude decays linearly from
// (peak - base) at the centre to zero at the radius edge.
func (fs *FrameSynthesizer) injectAnomaly(grid *model.ThermalGrid, ground model.GroundTrack) {
	offset := tileOffset(ground)
	centerRow := (fs.rng.IntN(model.GridSize) + offset) % model.GridSize
	centerCol := (fs.rng.IntN(model.GridSize) + offset) % model.GridSize

	radius := fs.cfg.AnomalyRadiusMin
	if span := fs.cfg.AnomalyRadiusMax - fs.cfg.AnomalyRadiusMin; span > 0 {
		radius += fs.rng.IntN(span + 1)
	}

	peak := fs.cfg.AnomalyTempMinC
	if span := fs.cfg.AnomalyTempMaxC - fs.cfg.AnomalyTempMinC; span > 0 {
		peak += fs.rng.Float64() * span
	}
	amplitude := peak - fs.cfg.BaseTempC
	if amplitude <= 0 {
		return
	}

	fr := float64(radius)
	for r := centerRow - radius; r <= centerRow+radius; r++ {
		if r < 0 || r >= model.GridSize {
			continue
		}
		for c := centerCol - radius; c <= centerCol+radius; c++ {
			if c < 0 || c >= model.GridSize {
				continue
			}
			d := math.Hypot(float64(r-centerRow), float64(c-centerCol))
			if d >= fr {
				continue
			}
			grid[r][c] += amplitude * (1 - d/fr)
		}
	}
}

// tileOffset folds the imaged ground tile (whole-degree lat/lon cell)
// into a stable placement bias.
func tileOffset(ground model.GroundTrack) int {
	lat := int(math.Floor(ground.Latitude))
	lon := int(math.Floor(ground.Longitude))
	h := (lat*181 + lon) % model.GridSize
	if h < 0 {
		h += model.GridSize
	}
	return h
}
