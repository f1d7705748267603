package narrative

import (
	"testing"

	"gridblitz.dev/platform/internal/core"
)

func stateWith(quarter core.Quarter, clock, homeScore, awayScore int) core.GameState {
	return core.GameState{Quarter: quarter, Clock: clock, HomeScore: homeScore, AwayScore: awayScore}
}

func TestClutchBoundaryExact(t *testing.T) {
	snap := Snapshot(nil, stateWith(core.Quarter4, 120, 17, 9), 0)
	if !snap.IsClutchMoment {
		t.Fatal("expected clutch at (Q4, clock=120, diff=8)")
	}

	snapQ1 := Snapshot(nil, stateWith(core.Quarter1, 120, 17, 9), 0)
	if snapQ1.IsClutchMoment {
		t.Fatal("expected no clutch in Q1 under identical clock/diff")
	}
}

func TestBlowoutAtDiff21(t *testing.T) {
	snap := Snapshot(nil, stateWith(core.Quarter2, 500, 28, 7), 0)
	if !snap.IsBlowout {
		t.Fatal("expected blowout at diff=21")
	}
	if snap.DramaLevel > 20 {
		t.Fatalf("expected dramaLevel <= 20 under blowout, got %d", snap.DramaLevel)
	}
}

func TestMomentumStaysBounded(t *testing.T) {
	var events []core.GameEvent
	for i := 0; i < 500; i++ {
		events = append(events, core.GameEvent{
			PlayResult: core.PlayResult{IsTouchdown: true, Scoring: &core.ScoringRecord{Team: core.TeamSideHome, Points: 6, Kind: "touchdown"}},
			GameState:  core.GameState{HomeScore: i * 6, Possession: core.TeamSideHome},
		})
		m := ComputeMomentum(events)
		if m < -100 || m > 100 {
			t.Fatalf("momentum out of bounds: %d", m)
		}
	}
}

func TestModifierForIsCapped(t *testing.T) {
	if v := ModifierFor(100); v > 0.03 || v < -0.03 {
		t.Fatalf("modifier exceeded cap: %v", v)
	}
	if v := ModifierFor(-100); v > 0.03 || v < -0.03 {
		t.Fatalf("modifier exceeded cap: %v", v)
	}
}
