package engine

import "math"

const (
	// ExpCurveCoef is the constant in ExpThreshold: 100 * (level-1)^1.5.
	ExpCurveCoef = 100.0

	// LevelScaleRate is the per-level reward scaling rate (10% per level
	// past 1). Level 1 keeps the nominal base values.
	LevelScaleRate = 0.10
)

// ExpThreshold returns the total EXP required to be at the given level.
// Levels at or below 1 require 0 EXP. Rounded to the nearest whole unit
// so results are bit-reproducible across runs.
func ExpThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	req := ExpCurveCoef * math.Pow(float64(level-1), 1.5)
	return int(math.Round(req))
}

// LevelForExp returns the highest level L >= 1 such that
// totalExp >= ExpThreshold(L).
func LevelForExp(totalExp int) int {
	if totalExp <= 0 {
		return 1
	}

	// Exponential search upper bound, then binary search.
	low := 1
	high := 2
	for ExpThreshold(high) <= totalExp {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if ExpThreshold(mid) <= totalExp {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// levelScale is the multiplicative reward factor for a character level.
// Non-decreasing in level; exactly 1.0 at level 1.
func levelScale(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1.0 + float64(level-1)*LevelScaleRate
}

// ScaledExp scales a task's nominal base EXP by character level.
func ScaledExp(baseExp, level int) int {
	return int(math.Round(float64(baseExp) * levelScale(level)))
}

// ScaledGold scales a task's nominal base gold by character level.
func ScaledGold(baseGold, level int) int {
	return int(math.Round(float64(baseGold) * levelScale(level)))
}

// ExpProgress returns the fraction [0,1] of progress from the current
// level's threshold toward the next one.
func ExpProgress(totalExp, level int) float64 {
	cur := ExpThreshold(level)
	next := ExpThreshold(level + 1)
	if next <= cur {
		return 1.0
	}
	p := float64(totalExp-cur) / float64(next-cur)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
