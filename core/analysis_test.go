package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/wildfire-twin/model"
)

func TestAssessVegetation_Tiers(t *testing.T) {
	cases := []struct {
		name     string
		meanTemp float64
		want     model.VegetationRisk
	}{
		{"cool frame is low risk", 25.0, model.VegetationRiskLow},
		{"mild excess is moderate", 26.5, model.VegetationRiskModerate},
		{"strong excess is high", 28.0, model.VegetationRiskHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid := uniformGrid(tc.meanTemp)
			risk, delta := AssessVegetation(&grid, 25.0)
			if risk != tc.want {
				t.Fatalf("risk %q, want %q", risk, tc.want)
			}
			if math.Abs(delta-(tc.meanTemp-25.0)) > 1e-9 {
				t.Fatalf("delta %v, want %v", delta, tc.meanTemp-25.0)
			}
		})
	}
}

func TestEstimateBurnScar_AreaAndRecovery(t *testing.T) {
	// 100 m GSD: each pixel covers one hectare.
	cases := []struct {
		pixels       int
		wantHectares float64
		wantRecovery string
	}{
		{0, 0, "< 1 year"},
		{1, 1, "1-3 years"},
		{4, 4, "2-4 years"},
		{12, 12, "4-6 years"},
	}
	for _, tc := range cases {
		cl := model.HotCluster{PixelCount: tc.pixels}
		scar := EstimateBurnScar(cl, 100)
		if scar.AreaHectares != tc.wantHectares {
			t.Fatalf("%d pixels: %v ha, want %v", tc.pixels, scar.AreaHectares, tc.wantHectares)
		}
		if scar.AreaSqM != tc.wantHectares*10000 {
			t.Fatalf("%d pixels: %v sq m, want %v", tc.pixels, scar.AreaSqM, tc.wantHectares*10000)
		}
		if scar.Recovery != tc.wantRecovery {
			t.Fatalf("%d pixels: recovery %q, want %q", tc.pixels, scar.Recovery, tc.wantRecovery)
		}
	}
}

func TestGeolocateFire_CentreClusterSitsUnderSatellite(t *testing.T) {
	// A cluster whose centroid is the frame centre maps onto the
	// sub-satellite point itself.
	half := model.GridSize / 2
	pixels := []model.Pixel{
		{Row: half, Col: half - 1},
		{Row: half, Col: half + 1},
		{Row: half - 1, Col: half},
		{Row: half + 1, Col: half},
	}
	grid := uniformGrid(60)
	cl := model.NewHotCluster(pixels, &grid)

	ground := model.GroundTrack{Latitude: 37.5, Longitude: -120.25}
	loc := GeolocateFire(cl, ground, 100)
	if math.Abs(loc.Latitude-ground.Latitude) > 1e-9 || math.Abs(loc.Longitude-ground.Longitude) > 1e-9 {
		t.Fatalf("centre cluster geolocated to (%v,%v), want (%v,%v)",
			loc.Latitude, loc.Longitude, ground.Latitude, ground.Longitude)
	}
}

func TestGeolocateFire_OffsetScalesWithGSD(t *testing.T) {
	grid := uniformGrid(60)
	// Ten pixel rows below centre, on the centre column.
	half := model.GridSize / 2
	cl := model.NewHotCluster([]model.Pixel{{Row: half + 10, Col: half}}, &grid)
	ground := model.GroundTrack{Latitude: 0, Longitude: 0}

	loc := GeolocateFire(cl, ground, 100)
	wantLat := 10 * 100.0 / 111320.0
	if math.Abs(loc.Latitude-wantLat) > 1e-9 {
		t.Fatalf("latitude offset %v, want %v", loc.Latitude, wantLat)
	}
	if math.Abs(loc.Longitude) > 1e-9 {
		t.Fatalf("longitude offset %v, want 0 on the centre column", loc.Longitude)
	}

	wide := GeolocateFire(cl, ground, 200)
	if math.Abs(wide.Latitude-2*wantLat) > 1e-9 {
		t.Fatalf("doubling GSD gave latitude %v, want %v", wide.Latitude, 2*wantLat)
	}
}

func TestGeolocateFire_LongitudeShrinksAtHighLatitude(t *testing.T) {
	grid := uniformGrid(60)
	half := model.GridSize / 2
	cl := model.NewHotCluster([]model.Pixel{{Row: half, Col: half + 10}}, &grid)

	equator := GeolocateFire(cl, model.GroundTrack{Latitude: 0}, 100)
	arctic := GeolocateFire(cl, model.GroundTrack{Latitude: 60}, 100)

	if arctic.Longitude <= equator.Longitude {
		t.Fatalf("longitude offset at 60N (%v) should exceed the equatorial offset (%v)",
			arctic.Longitude, equator.Longitude)
	}
}
