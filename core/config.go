package core

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SensorConfig controls thermal frame synthesis.
type SensorConfig struct {
	// BaseTempC is the ambient baseline temperature of healthy terrain.
	BaseTempC float64 `yaml:"base_temp_c"`
	// NoiseSigmaC is the stddev of the per-pixel Gaussian sensor noise.
	NoiseSigmaC float64 `yaml:"noise_sigma_c"`
	// AnomalyProbability is the per-tick chance a fire anomaly is
	// injected. Zero is valid and simply never injects.
	AnomalyProbability float64 `yaml:"anomaly_probability"`
	// AnomalyTempMinC/MaxC bound the injected peak temperature.
	AnomalyTempMinC float64 `yaml:"anomaly_temp_min_c"`
	AnomalyTempMaxC float64 `yaml:"anomaly_temp_max_c"`
	// AnomalyRadiusMin/Max bound the injected footprint radius, pixels.
	AnomalyRadiusMin int `yaml:"anomaly_radius_min"`
	AnomalyRadiusMax int `yaml:"anomaly_radius_max"`
}

// DetectorConfig controls noise filtering, thresholding, and clustering.
type DetectorConfig struct {
	// TempThresholdC is the filtered-temperature fire threshold.
	TempThresholdC float64 `yaml:"temp_threshold_c"`
	// NoiseFilterWindow is the mean-filter window edge; odd, >= 1.
	NoiseFilterWindow int `yaml:"noise_filter_window"`
	// MinClusterSize drops connected components smaller than this.
	MinClusterSize int `yaml:"min_cluster_size"`
}

// ScorerConfig controls how cluster geometry and intensity combine into
// a confidence score. SizeWeight and IntensityWeight must sum to 1.0.
type ScorerConfig struct {
	SizeWeight      float64 `yaml:"size_weight"`
	IntensityWeight float64 `yaml:"intensity_weight"`
	// MaxClusterPixels normalizes the size term; a cluster this large or
	// larger saturates it.
	MaxClusterPixels int `yaml:"max_cluster_pixels"`
	// MaxExcessC normalizes the intensity term: mean temperature this
	// far above the detection threshold saturates it.
	MaxExcessC float64 `yaml:"max_excess_c"`
}

// TriggerConfig controls the parametric trigger state machine.
type TriggerConfig struct {
	// ConfidenceThreshold is the arming threshold on the confidence
	// score, in [0,1].
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// ArmPersistence is the number of consecutive ticks at or above the
	// threshold required before arming.
	ArmPersistence int `yaml:"arm_persistence"`
	// PayoutAmountUSD is the per-incident payout, capped at the budget
	// remaining when the trigger fires.
	PayoutAmountUSD float64 `yaml:"payout_amount_usd"`
	// MissionBudgetUSD is the initial budget; the trigger is exhausted
	// exactly when it reaches zero.
	MissionBudgetUSD float64 `yaml:"mission_budget_usd"`
}

// OrbitConfig selects the TLE the orbit source propagates.
type OrbitConfig struct {
	Name string `yaml:"name"`
	TLE1 string `yaml:"tle1"`
	TLE2 string `yaml:"tle2"`
}

// MissionConfig is the single validated configuration bundle for a run.
// Construction-time validation is the only clamp: nothing is silently
// corrected mid-run.
type MissionConfig struct {
	Sensor   SensorConfig   `yaml:"sensor"`
	Detector DetectorConfig `yaml:"detector"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Trigger  TriggerConfig  `yaml:"trigger"`
	Orbit    OrbitConfig    `yaml:"orbit"`

	// SensorGSDM documents the ground sample distance of one pixel in
	// metres. It scales geolocation and burn-scar area only; the grid
	// stays 64x64 regardless.
	SensorGSDM float64 `yaml:"sensor_gsd_m"`

	// VegetationBaselineC anchors the drought-stress risk grading.
	VegetationBaselineC float64 `yaml:"vegetation_baseline_c"`

	// TickInterval is the real-time spacing between ticks.
	TickInterval Duration `yaml:"tick_interval"`
}

// Duration is a time.Duration that unmarshals from YAML duration
// strings like "250ms" or "1s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ISS TLE carried over as the default orbit for the digital twin.
const (
	defaultTLE1 = "1 25544U 98067A   23001.50000000  .00000000  00000-0  00000-0 0  9998"
	defaultTLE2 = "2 25544  51.6416  24.7712 0006703 130.5360 325.0288 15.50000000215754"
)

// DefaultMissionConfig returns the reference wildfire mission: $2500
// budget, 45 C threshold, 100 m GSD, 27 C ambient with 1 C noise.
func DefaultMissionConfig() MissionConfig {
	return MissionConfig{
		Sensor: SensorConfig{
			BaseTempC:          27.0,
			NoiseSigmaC:        1.0,
			AnomalyProbability: 0.3,
			AnomalyTempMinC:    50.0,
			AnomalyTempMaxC:    60.0,
			AnomalyRadiusMin:   3,
			AnomalyRadiusMax:   6,
		},
		Detector: DetectorConfig{
			TempThresholdC:    45.0,
			NoiseFilterWindow: 3,
			MinClusterSize:    4,
		},
		Scorer: ScorerConfig{
			SizeWeight:       0.6,
			IntensityWeight:  0.4,
			MaxClusterPixels: 64,
			MaxExcessC:       15.0,
		},
		Trigger: TriggerConfig{
			ConfidenceThreshold: 0.85,
			ArmPersistence:      3,
			PayoutAmountUSD:     2500.0,
			MissionBudgetUSD:    2500.0,
		},
		Orbit: OrbitConfig{
			Name: "WILDFIRE_WATCH_1",
			TLE1: defaultTLE1,
			TLE2: defaultTLE2,
		},
		SensorGSDM:          100.0,
		VegetationBaselineC: 25.0,
		TickInterval:        Duration(time.Second),
	}
}

// LoadMissionConfig reads a YAML mission file over the defaults. An
// empty path returns the defaults unchanged. The result is not yet
// validated; callers validate once at pipeline construction.
func LoadMissionConfig(path string) (MissionConfig, error) {
	cfg := DefaultMissionConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read mission config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse mission config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every invariant the pipeline relies on. It returns an
// error wrapping ErrInvalidConfig naming the first offending field.
func (c MissionConfig) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	s := c.Sensor
	if s.NoiseSigmaC < 0 {
		return fail("noise_sigma_c %v must be >= 0", s.NoiseSigmaC)
	}
	if s.AnomalyProbability < 0 || s.AnomalyProbability > 1 {
		return fail("anomaly_probability %v must be in [0,1]", s.AnomalyProbability)
	}
	if s.AnomalyTempMaxC < s.AnomalyTempMinC {
		return fail("anomaly temp range [%v,%v] is inverted", s.AnomalyTempMinC, s.AnomalyTempMaxC)
	}
	if s.AnomalyRadiusMin <= 0 || s.AnomalyRadiusMax < s.AnomalyRadiusMin {
		return fail("anomaly radius range [%d,%d] must be positive and ordered",
			s.AnomalyRadiusMin, s.AnomalyRadiusMax)
	}

	d := c.Detector
	if d.NoiseFilterWindow < 1 || d.NoiseFilterWindow%2 == 0 {
		return fail("noise_filter_window %d must be an odd integer >= 1", d.NoiseFilterWindow)
	}
	if d.MinClusterSize < 1 {
		return fail("min_cluster_size %d must be >= 1", d.MinClusterSize)
	}

	sc := c.Scorer
	if math.Abs(sc.SizeWeight+sc.IntensityWeight-1.0) > 1e-9 {
		return fail("size_weight %v + intensity_weight %v must sum to 1.0",
			sc.SizeWeight, sc.IntensityWeight)
	}
	if sc.SizeWeight < 0 || sc.IntensityWeight < 0 {
		return fail("scorer weights must be non-negative")
	}
	if sc.MaxClusterPixels < 1 {
		return fail("max_cluster_pixels %d must be >= 1", sc.MaxClusterPixels)
	}
	if sc.MaxExcessC <= 0 {
		return fail("max_excess_c %v must be > 0", sc.MaxExcessC)
	}

	t := c.Trigger
	if t.ConfidenceThreshold < 0 || t.ConfidenceThreshold > 1 {
		return fail("confidence_threshold %v must be in [0,1]", t.ConfidenceThreshold)
	}
	if t.ArmPersistence < 1 {
		return fail("arm_persistence %d must be >= 1", t.ArmPersistence)
	}
	if t.PayoutAmountUSD <= 0 {
		return fail("payout_amount_usd %v must be > 0", t.PayoutAmountUSD)
	}
	if t.MissionBudgetUSD <= 0 {
		return fail("mission_budget_usd %v must be > 0", t.MissionBudgetUSD)
	}

	if c.SensorGSDM <= 0 {
		return fail("sensor_gsd_m %v must be > 0", c.SensorGSDM)
	}
	if c.TickInterval <= 0 {
		return fail("tick_interval %v must be > 0", c.TickInterval.Std())
	}
	return nil
}
