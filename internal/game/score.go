package game

import "time"

const (
	scoreBase         = 1000
	timeBonusCeiling  = 300 // seconds; one point lost per elapsed second
	attemptBonusValue = 50  // per unused attempt
)

// ComputeScore converts elapsed time and guess budget usage into the
// final score for a won game. Deterministic, no side effects.
func ComputeScore(elapsed time.Duration, attemptsUsed, maxAttempts int) int {
	timeBonus := timeBonusCeiling - int(elapsed/time.Second)
	if timeBonus < 0 {
		timeBonus = 0
	}
	attemptsBonus := (maxAttempts - attemptsUsed) * attemptBonusValue
	if attemptsBonus < 0 {
		attemptsBonus = 0
	}
	return scoreBase + timeBonus + attemptsBonus
}
