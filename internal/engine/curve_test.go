package engine

import "testing"

func TestExpThresholdBoundaries(t *testing.T) {
	if got := ExpThreshold(0); got != 0 {
		t.Fatalf("ExpThreshold(0)=%d, want 0", got)
	}
	if got := ExpThreshold(1); got != 0 {
		t.Fatalf("ExpThreshold(1)=%d, want 0", got)
	}
	if got := ExpThreshold(2); got != 100 {
		t.Fatalf("ExpThreshold(2)=%d, want 100", got)
	}
	// 100 * 2^1.5 = 282.84..., rounds to 283
	if got := ExpThreshold(3); got != 283 {
		t.Fatalf("ExpThreshold(3)=%d, want 283", got)
	}
}

func TestExpThresholdMonotonic(t *testing.T) {
	prev := ExpThreshold(1)
	for lvl := 2; lvl <= 200; lvl++ {
		cur := ExpThreshold(lvl)
		if cur <= prev {
			t.Fatalf("ExpThreshold(%d)=%d not greater than ExpThreshold(%d)=%d", lvl, cur, lvl-1, prev)
		}
		prev = cur
	}
}

func TestLevelForExpBoundaries(t *testing.T) {
	if got := LevelForExp(0); got != 1 {
		t.Fatalf("LevelForExp(0)=%d, want 1", got)
	}
	if got := LevelForExp(-5); got != 1 {
		t.Fatalf("LevelForExp(-5)=%d, want 1", got)
	}

	l5 := ExpThreshold(5)
	if got := LevelForExp(l5 - 1); got != 4 {
		t.Fatalf("LevelForExp(l5-1)=%d, want 4", got)
	}
	if got := LevelForExp(l5); got != 5 {
		t.Fatalf("LevelForExp(l5)=%d, want 5", got)
	}
	if got := LevelForExp(l5 + 1); got != 5 {
		t.Fatalf("LevelForExp(l5+1)=%d, want 5", got)
	}
}

func TestLevelForExpRoundTrip(t *testing.T) {
	for lvl := 1; lvl <= 60; lvl++ {
		if got := LevelForExp(ExpThreshold(lvl)); got != lvl {
			t.Fatalf("LevelForExp(ExpThreshold(%d))=%d", lvl, got)
		}
	}
}

func TestScaledRewards(t *testing.T) {
	if got := ScaledExp(10, 1); got != 10 {
		t.Fatalf("ScaledExp(10, 1)=%d, want 10", got)
	}
	if got := ScaledGold(5, 1); got != 5 {
		t.Fatalf("ScaledGold(5, 1)=%d, want 5", got)
	}
	// Level 5: factor 1.4
	if got := ScaledExp(10, 5); got != 14 {
		t.Fatalf("ScaledExp(10, 5)=%d, want 14", got)
	}
	if got := ScaledGold(5, 5); got != 7 {
		t.Fatalf("ScaledGold(5, 5)=%d, want 7", got)
	}

	prev := ScaledExp(10, 1)
	for lvl := 2; lvl <= 50; lvl++ {
		cur := ScaledExp(10, lvl)
		if cur < prev {
			t.Fatalf("ScaledExp decreased at level %d: %d < %d", lvl, cur, prev)
		}
		prev = cur
	}
}

func TestExpProgressClamped(t *testing.T) {
	if got := ExpProgress(0, 1); got != 0 {
		t.Fatalf("ExpProgress(0, 1)=%v, want 0", got)
	}
	if got := ExpProgress(ExpThreshold(2), 1); got != 1 {
		t.Fatalf("ExpProgress at threshold=%v, want 1", got)
	}
	mid := ExpProgress(50, 1)
	if mid <= 0 || mid >= 1 {
		t.Fatalf("ExpProgress(50, 1)=%v, want in (0,1)", mid)
	}
}
