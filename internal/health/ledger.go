// Package health holds the update rule for a user's bounded wellness
// score and the mapping from health to a display mood.
package health

import (
	"gachipet/internal/models"
)

// Display emotion codes understood by the pet display firmware.
const (
	EmotionSad     = 0
	EmotionNeutral = 2
	EmotionHappy   = 4
)

// IsHealthy reports whether a classified food counts as healthy: a fruit
// or vegetable scoring at least 4.
func IsHealthy(category string, healthScore int) bool {
	return (category == models.CategoryFruit || category == models.CategoryVegetable) && healthScore >= 4
}

// Apply computes the next health value. Healthy foods add their full
// score, middling foods are neutral, and low scores subtract 6-score.
// The clamp to [0,20] happens after the raw sum; the asymmetry between
// the bonus and penalty formulas is deliberate.
func Apply(oldHealth int, category string, healthScore int) (newHealth, delta int) {
	switch {
	case IsHealthy(category, healthScore):
		delta = healthScore
	case healthScore >= 3:
		delta = 0
	default:
		delta = -(6 - healthScore)
	}

	newHealth = clamp(oldHealth+delta, models.MinHealth, models.MaxHealth)
	return newHealth, delta
}

// Mood maps a health value to the display emotion shown on the device.
func Mood(health int) int {
	switch {
	case health >= 14:
		return EmotionHappy
	case health >= 7:
		return EmotionNeutral
	default:
		return EmotionSad
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
