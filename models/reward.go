package models

// LevelThreshold is the experience quantum required to advance one level.
const LevelThreshold = 300

// Reward per graded answer.
const (
	RewardCorrectExp    = 20
	RewardCorrectGold   = 10
	RewardIncorrectExp  = 5
	RewardIncorrectGold = 0
)

// Reward is the experience/gold delta earned by one answer.
type Reward struct {
	Exp  int `json:"exp"`
	Gold int `json:"gold"`
}

// ComputeReward maps a correctness flag to its reward delta.
func ComputeReward(correct bool) Reward {
	if correct {
		return Reward{Exp: RewardCorrectExp, Gold: RewardCorrectGold}
	}
	return Reward{Exp: RewardIncorrectExp, Gold: RewardIncorrectGold}
}

// LevelForExperience derives the level implied by a cumulative experience
// total. It is the single source of truth for leveling: the same formula runs
// inside the SQL increment on the write path.
func LevelForExperience(exp int) int {
	if exp < 0 {
		return 1
	}
	return exp/LevelThreshold + 1
}
