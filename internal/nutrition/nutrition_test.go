package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gachipet/internal/models"
)

func TestResolveExactMatch(t *testing.T) {
	info := Resolve("banana")
	assert.Equal(t, models.CategoryFruit, info.Category)
	assert.Equal(t, 5, info.HealthScore)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	info := Resolve("Cheeseburger")
	assert.Equal(t, models.CategoryFastFood, info.Category)
	assert.Equal(t, 1, info.HealthScore)
}

func TestResolvePartialMatchLabelContainsKey(t *testing.T) {
	info := Resolve("granny smith apple")
	assert.Equal(t, models.CategoryFruit, info.Category)
	assert.Equal(t, 5, info.HealthScore)
}

func TestResolvePartialMatchKeyContainsLabel(t *testing.T) {
	// "fries" is a substring of the "french fries" key.
	info := Resolve("fries")
	assert.Equal(t, models.CategoryFastFood, info.Category)
	assert.Equal(t, 1, info.HealthScore)
}

func TestResolvePartialMatchFollowsDeclarationOrder(t *testing.T) {
	// Matches both "apple" and "cupcake"; "apple" is declared first and
	// wins. The tie-break is table order, not specificity.
	info := Resolve("apple cupcake")
	assert.Equal(t, models.CategoryFruit, info.Category)
	assert.Equal(t, 5, info.HealthScore)
}

func TestResolveUnknownLabelDefaults(t *testing.T) {
	info := Resolve("xyzzy")
	assert.Equal(t, models.CategoryUnknown, info.Category)
	assert.Equal(t, 3, info.HealthScore)
}

func TestResolveScoresStayInRange(t *testing.T) {
	for _, e := range table {
		assert.GreaterOrEqual(t, e.info.HealthScore, 1, e.key)
		assert.LessOrEqual(t, e.info.HealthScore, 5, e.key)
	}
}
