// Package nutrition maps classifier labels to a food category and a
// 1..5 health score.
package nutrition

import (
	"strings"

	"gachipet/internal/models"
)

type Info struct {
	Category    string
	HealthScore int
}

type entry struct {
	key  string
	info Info
}

// The table is a slice, not a map: the partial-match pass below picks the
// first entry whose key overlaps the label, so declaration order decides
// ties. Intentional.
var table = []entry{
	// Fruits
	{"banana", Info{models.CategoryFruit, 5}},
	{"apple", Info{models.CategoryFruit, 5}},
	{"orange", Info{models.CategoryFruit, 5}},
	{"strawberry", Info{models.CategoryFruit, 5}},
	{"pineapple", Info{models.CategoryFruit, 4}},
	{"lemon", Info{models.CategoryFruit, 5}},

	// Vegetables
	{"broccoli", Info{models.CategoryVegetable, 5}},
	{"mushroom", Info{models.CategoryVegetable, 5}},
	{"artichoke", Info{models.CategoryVegetable, 5}},
	{"cauliflower", Info{models.CategoryVegetable, 5}},
	{"zucchini", Info{models.CategoryVegetable, 5}},
	{"cucumber", Info{models.CategoryVegetable, 5}},

	// Fast food
	{"cheeseburger", Info{models.CategoryFastFood, 1}},
	{"hamburger", Info{models.CategoryFastFood, 2}},
	{"pizza", Info{models.CategoryFastFood, 2}},
	{"hotdog", Info{models.CategoryFastFood, 1}},
	{"french fries", Info{models.CategoryFastFood, 1}},

	// Desserts
	{"ice cream", Info{models.CategoryDessert, 1}},
	{"chocolate", Info{models.CategoryDessert, 2}},
	{"cupcake", Info{models.CategoryDessert, 1}},
	{"doughnut", Info{models.CategoryDessert, 1}},
	{"tiramisu", Info{models.CategoryDessert, 2}},
}

// Unknown is returned for labels the table does not cover.
var Unknown = Info{models.CategoryUnknown, 3}

// Resolve looks up nutrition info for a label: exact case-insensitive
// match first, then the first entry whose key contains the label or is
// contained in it, then Unknown.
func Resolve(label string) Info {
	lower := strings.ToLower(label)

	for _, e := range table {
		if e.key == lower {
			return e.info
		}
	}

	for _, e := range table {
		if strings.Contains(lower, e.key) || strings.Contains(e.key, lower) {
			return e.info
		}
	}

	return Unknown
}
