package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

const earthRadiusMeters = 6371000.0

// VerificationResult describes a geofence check. Ephemeral: recomputed on
// demand, never persisted.
type VerificationResult struct {
	InRange        bool
	DistanceMeters float64
	DistanceText   string
}

// IsPhotoTimestampValid reports whether a photo captured at the given
// time is still acceptable as proof. The window is inclusive at exactly
// the validity bound; timestamps from the future are tolerated only up to
// the clock-skew allowance. Expired photos force a re-capture.
func (s *Service) IsPhotoTimestampValid(capturedAt time.Time) bool {
	return photoTimestampValidAt(capturedAt, s.clock.Now(), s.bal.PhotoValidityWindow.Std(), s.bal.ClockSkewTolerance.Std())
}

func photoTimestampValidAt(capturedAt, now time.Time, window, skew time.Duration) bool {
	age := now.Sub(capturedAt)
	if age < -skew {
		return false
	}
	return age <= window
}

// VerifyGeofence computes the great-circle distance between the target
// and the user and reports inclusion. Being outside the radius is not a
// failure: callers downgrade to a reduced reward tier to tolerate GPS
// drift.
func VerifyGeofence(targetLat, targetLon, targetRadiusM, userLat, userLon float64) VerificationResult {
	d := haversineMeters(targetLat, targetLon, userLat, userLon)
	return VerificationResult{
		InRange:        d <= targetRadiusM,
		DistanceMeters: d,
		DistanceText:   formatDistance(d),
	}
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// MotionDetected applies the motion-plausibility heuristic to a window of
// acceleration-magnitude samples. Advisory only: it feeds a small bonus
// and never blocks completion. Fewer than the minimum sample count is
// "no motion", not invalid.
func (s *Service) MotionDetected(samples []float64) bool {
	return motionDetected(samples, s.bal.MotionMinSamples, s.bal.MotionVarianceThreshold)
}

func motionDetected(samples []float64, minSamples int, threshold float64) bool {
	if len(samples) < minSamples {
		return false
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return variance > threshold
}

// CanComplete reports whether the task may transition to completed right
// now. The checks run in a fixed order (minimum duration, then
// verification proof, then deadline) and the first failure supplies the
// user-facing reason. Verification outcomes are values, never errors.
func (s *Service) CanComplete(t *storage.Task) (bool, string) {
	now := s.clock.Now()

	if t.MinDurationSec > 0 {
		if t.StartedAt == nil {
			return false, ReasonMinDuration
		}
		elapsed := now.Sub(*t.StartedAt)
		if elapsed < time.Duration(t.MinDurationSec)*time.Second {
			return false, ReasonMinDuration
		}
	}

	req := VerifyRequirement(t.Verify)
	if req.NeedsPhoto() {
		if t.PhotoAt == nil || !s.IsPhotoTimestampValid(*t.PhotoAt) {
			return false, ReasonPhotoStale
		}
	}
	if req.NeedsLocation() {
		if t.CapturedLat == nil || t.CapturedLon == nil {
			return false, ReasonLocationProof
		}
	}

	if t.DueDate != nil && now.After(*t.DueDate) {
		return false, ReasonDeadlinePassed
	}

	return true, ""
}

// achievedTier derives the verification tier actually earned from the
// requirement and captured proof. Proof freshness was already gated by
// CanComplete; here only presence matters.
func achievedTier(t *storage.Task) VerificationTier {
	req := VerifyRequirement(t.Verify)
	hasPhoto := t.PhotoAt != nil
	hasLocation := t.CapturedLat != nil && t.CapturedLon != nil

	switch req {
	case VerifyBoth:
		if hasPhoto && hasLocation {
			return TierBoth
		}
	case VerifyPhoto:
		if hasPhoto {
			return TierPhoto
		}
	case VerifyLocation:
		if hasLocation {
			return TierLocation
		}
	}
	return TierNone
}

// geofenceInRange checks the task's captured coordinate against its
// geofence target. Tasks without a geofence count as in range.
func geofenceInRange(t *storage.Task) bool {
	if t.GeofenceLat == nil || t.GeofenceLon == nil || t.GeofenceRadiusM == nil {
		return true
	}
	if t.CapturedLat == nil || t.CapturedLon == nil {
		return false
	}
	res := VerifyGeofence(*t.GeofenceLat, *t.GeofenceLon, *t.GeofenceRadiusM, *t.CapturedLat, *t.CapturedLon)
	return res.InRange
}
