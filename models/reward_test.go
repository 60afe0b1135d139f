package models

import "testing"

func TestComputeReward(t *testing.T) {
	tests := []struct {
		correct  bool
		wantExp  int
		wantGold int
	}{
		{true, 20, 10},
		{false, 5, 0},
	}

	for _, tt := range tests {
		got := ComputeReward(tt.correct)
		if got.Exp != tt.wantExp || got.Gold != tt.wantGold {
			t.Errorf("ComputeReward(%v) = %+v, want exp=%d gold=%d", tt.correct, got, tt.wantExp, tt.wantGold)
		}
	}
}

func TestLevelForExperience(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{1, 1},
		{299, 1},
		{300, 2},
		{301, 2},
		{599, 2},
		{600, 3},
		{2999, 10},
		{3000, 11},
		{-5, 1},
	}

	for _, tt := range tests {
		if got := LevelForExperience(tt.exp); got != tt.want {
			t.Errorf("LevelForExperience(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

// The level only depends on the cumulative total, not on how it was earned.
func TestLevelPathIndependence(t *testing.T) {
	total := 0
	for i := 0; i < 15; i++ {
		total += ComputeReward(true).Exp
	}
	if total != 300 {
		t.Fatalf("15 correct answers = %d exp, want 300", total)
	}
	if LevelForExperience(total) != LevelForExperience(300) {
		t.Error("level differs for equal cumulative experience")
	}
	if LevelForExperience(total) != 2 {
		t.Errorf("LevelForExperience(300) = %d, want 2", LevelForExperience(total))
	}
}
