package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhotoTimestampWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	skew := 30 * time.Second

	cases := []struct {
		name       string
		capturedAt time.Time
		want       bool
	}{
		{"fresh", now.Add(-1 * time.Minute), true},
		{"exactly at window", now.Add(-window), true},
		{"just past window", now.Add(-window - time.Second), false},
		{"same instant", now, true},
		{"future within skew", now.Add(20 * time.Second), true},
		{"future at skew bound", now.Add(skew), true},
		{"future past skew", now.Add(skew + time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := photoTimestampValidAt(tc.capturedAt, now, window, skew)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVerifyGeofence(t *testing.T) {
	// Reference point in central Austin; ~111m per 0.001 deg latitude.
	lat, lon := 30.2672, -97.7431

	cases := []struct {
		name    string
		radius  float64
		userLat float64
		userLon float64
		inRange bool
	}{
		{"same point r100", 100, lat, lon, true},
		{"~111m north r100", 100, lat + 0.001, lon, false},
		{"~111m north r200", 200, lat + 0.001, lon, true},
		{"~333m north r200", 200, lat + 0.003, lon, false},
		{"~333m north r500", 500, lat + 0.003, lon, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := VerifyGeofence(lat, lon, tc.radius, tc.userLat, tc.userLon)
			assert.Equal(t, tc.inRange, res.InRange, "distance was %.1f m", res.DistanceMeters)
			assert.Greater(t, res.DistanceMeters, -1.0)
			assert.NotEmpty(t, res.DistanceText)
		})
	}
}

func TestVerifyGeofenceDistanceAccuracy(t *testing.T) {
	// 0.001 deg of latitude is 111.2m of arc.
	res := VerifyGeofence(30.0, -97.0, 100, 30.001, -97.0)
	assert.InDelta(t, 111.2, res.DistanceMeters, 1.0)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "87 m", formatDistance(87.3))
	assert.Equal(t, "1.4 km", formatDistance(1437))
	assert.Equal(t, "0 m", formatDistance(0))
}

func TestMotionDetected(t *testing.T) {
	const minSamples = 3
	const threshold = 0.15

	t.Run("too few samples means no motion", func(t *testing.T) {
		assert.False(t, motionDetected(nil, minSamples, threshold))
		assert.False(t, motionDetected([]float64{5, 9}, minSamples, threshold))
	})

	t.Run("flat samples mean no motion", func(t *testing.T) {
		assert.False(t, motionDetected([]float64{9.8, 9.8, 9.8, 9.8}, minSamples, threshold))
	})

	t.Run("varied samples mean motion", func(t *testing.T) {
		assert.True(t, motionDetected([]float64{9.8, 11.5, 8.2, 12.0, 9.1}, minSamples, threshold))
	})
}
