package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// PositionSource supplies the sub-satellite ground point per tick. The
// pipeline treats it as an opaque coordinate generator; no propagation
// logic lives in the core.
type PositionSource interface {
	CurrentPosition(tick int, simTime time.Time) (model.GroundTrack, error)
}

// SGP4PositionSource propagates a TLE with SGP4 and converts the ECI
// position to a geodetic sub-satellite point.
type SGP4PositionSource struct {
	name string
	sat  satellite.Satellite
}

// NewSGP4PositionSource parses the TLE for the mission satellite.
// A malformed TLE surfaces as ErrUpstreamUnavailable: the orbit source
// can never resolve a position from it.
func NewSGP4PositionSource(cfg OrbitConfig) (*SGP4PositionSource, error) {
	if err := checkTLE(cfg.TLE1, cfg.TLE2); err != nil {
		return nil, err
	}
	return &SGP4PositionSource{
		name: cfg.Name,
		sat:  satellite.TLEToSat(cfg.TLE1, cfg.TLE2, satellite.GravityWGS72),
	}, nil
}

// CurrentPosition propagates the satellite to simTime and returns the
// geodetic sub-satellite point in degrees.
func (s *SGP4PositionSource) CurrentPosition(tick int, simTime time.Time) (model.GroundTrack, error) {
	simTime = simTime.UTC()
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)

	_, _, latLong := satellite.ECIToLLA(posECI, gmst)
	deg := satellite.LatLongDeg(latLong)

	if math.IsNaN(deg.Latitude) || math.IsNaN(deg.Longitude) {
		return model.GroundTrack{}, fmt.Errorf(
			"%w: SGP4 propagation of %q diverged at tick %d", ErrUpstreamUnavailable, s.name, tick)
	}

	return model.GroundTrack{
		Latitude:  deg.Latitude,
		Longitude: deg.Longitude,
		Timestamp: simTime,
	}, nil
}

// checkTLE rejects structurally malformed element sets before they
// reach the propagator.
func checkTLE(line1, line2 string) error {
	const tleLineLen = 69
	if len(line1) != tleLineLen || !strings.HasPrefix(line1, "1 ") {
		return fmt.Errorf("%w: malformed TLE line 1", ErrUpstreamUnavailable)
	}
	if len(line2) != tleLineLen || !strings.HasPrefix(line2, "2 ") {
		return fmt.Errorf("%w: malformed TLE line 2", ErrUpstreamUnavailable)
	}
	return nil
}

// FixedPositionSource always reports the same ground point. Used in
// tests and for stationary-sensor experiments.
type FixedPositionSource struct {
	Latitude  float64
	Longitude float64
}

// CurrentPosition implements PositionSource.
func (f *FixedPositionSource) CurrentPosition(tick int, simTime time.Time) (model.GroundTrack, error) {
	return model.GroundTrack{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Timestamp: simTime,
	}, nil
}
