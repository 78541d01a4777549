package health

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"gachipet/internal/models"
)

func TestApplyHealthyFruitAddsFullScore(t *testing.T) {
	newHealth, delta := Apply(10, models.CategoryFruit, 5)
	assert.Equal(t, 5, delta)
	assert.Equal(t, 15, newHealth)
}

func TestApplyClampsAtUpperBound(t *testing.T) {
	newHealth, delta := Apply(18, models.CategoryFruit, 5)
	assert.Equal(t, 5, delta)
	assert.Equal(t, 20, newHealth)
}

func TestApplyVegetableScoreFourAddsFour(t *testing.T) {
	newHealth, delta := Apply(3, models.CategoryVegetable, 4)
	assert.Equal(t, 4, delta)
	assert.Equal(t, 7, newHealth)
}

func TestApplyModerateScoreIsNeutral(t *testing.T) {
	for _, category := range []string{models.CategoryFastFood, models.CategoryDessert, models.CategoryUnknown} {
		newHealth, delta := Apply(10, category, 3)
		assert.Equal(t, 0, delta)
		assert.Equal(t, 10, newHealth)
	}
}

func TestApplyFruitBelowFourIsNeutral(t *testing.T) {
	// The bonus needs score >= 4 even for fruit; a fruit at 3 falls
	// through to the neutral branch.
	newHealth, delta := Apply(10, models.CategoryFruit, 3)
	assert.Equal(t, 0, delta)
	assert.Equal(t, 10, newHealth)
}

func TestApplyLowScorePenalty(t *testing.T) {
	newHealth, delta := Apply(10, models.CategoryFastFood, 2)
	assert.Equal(t, -4, delta)
	assert.Equal(t, 6, newHealth)

	newHealth, delta = Apply(10, models.CategoryDessert, 1)
	assert.Equal(t, -5, delta)
	assert.Equal(t, 5, newHealth)
}

func TestApplyClampsAtLowerBound(t *testing.T) {
	newHealth, delta := Apply(2, models.CategoryFastFood, 1)
	assert.Equal(t, -5, delta)
	assert.Equal(t, 0, newHealth)
}

func TestApplyStaysInBoundsOverAnySequence(t *testing.T) {
	categories := []string{
		models.CategoryFruit, models.CategoryVegetable,
		models.CategoryFastFood, models.CategoryDessert, models.CategoryUnknown,
	}
	rng := rand.New(rand.NewSource(1))

	for start := models.MinHealth; start <= models.MaxHealth; start++ {
		h := start
		for i := 0; i < 500; i++ {
			category := categories[rng.Intn(len(categories))]
			score := 1 + rng.Intn(5)
			h, _ = Apply(h, category, score)
			assert.GreaterOrEqual(t, h, models.MinHealth)
			assert.LessOrEqual(t, h, models.MaxHealth)
		}
	}
}

func TestIsHealthy(t *testing.T) {
	assert.True(t, IsHealthy(models.CategoryFruit, 5))
	assert.True(t, IsHealthy(models.CategoryVegetable, 4))
	assert.False(t, IsHealthy(models.CategoryFruit, 3))
	assert.False(t, IsHealthy(models.CategoryFastFood, 5))
	assert.False(t, IsHealthy(models.CategoryUnknown, 4))
}

func TestMood(t *testing.T) {
	assert.Equal(t, EmotionHappy, Mood(20))
	assert.Equal(t, EmotionHappy, Mood(14))
	assert.Equal(t, EmotionNeutral, Mood(13))
	assert.Equal(t, EmotionNeutral, Mood(7))
	assert.Equal(t, EmotionSad, Mood(6))
	assert.Equal(t, EmotionSad, Mood(0))
}
