package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-planner/internal/shared"
)

func TestSynthesizeClusterHit(t *testing.T) {
	products := Synthesize("mango", shared.NewSampler(3))

	require.NotEmpty(t, products)
	assert.LessOrEqual(t, len(products), maxSynthesized)
	assert.Equal(t, "Mango", products[0].Name, "matched keyword comes first")

	names := make(map[string]bool)
	for _, p := range products {
		assert.Equal(t, Produce, p.Category)
		assert.False(t, names[p.Name], "duplicate name %s", p.Name)
		names[p.Name] = true
		assert.GreaterOrEqual(t, p.Nutrition.Calories, 20.0)
		assert.LessOrEqual(t, p.Nutrition.Calories, 120.0)
		assert.LessOrEqual(t, p.Nutrition.Protein, 2.0)
	}
}

func TestSynthesizeRanges(t *testing.T) {
	sampler := shared.NewSampler(11)

	tests := []struct {
		term       string
		department Department
		minKcal    float64
		maxKcal    float64
		check      func(t *testing.T, p Product)
	}{
		{"chicken thighs", MeatSeafood, 100, 250, func(t *testing.T, p Product) {
			assert.GreaterOrEqual(t, p.Nutrition.Protein, 15.0)
			assert.LessOrEqual(t, p.Nutrition.Protein, 25.0)
		}},
		{"goat cheese", DairyEggs, 60, 180, nil},
		{"wild rice", BakeryGrains, 100, 250, nil},
		{"almonds", NutsSeeds, 150, 250, func(t *testing.T, p Product) {
			assert.GreaterOrEqual(t, p.Nutrition.Fat, 12.0)
		}},
		{"green tea", Beverages, 0, 150, nil},
		{"steak", MeatSeafood, 100, 250, nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			products := Synthesize(tt.term, sampler)
			require.NotEmpty(t, products)
			assert.LessOrEqual(t, len(products), maxSynthesized)
			for _, p := range products {
				assert.Equal(t, tt.department, p.Category)
				assert.GreaterOrEqual(t, p.Nutrition.Calories, tt.minKcal)
				assert.LessOrEqual(t, p.Nutrition.Calories, tt.maxKcal)
				assert.Positive(t, p.Price)
				if tt.check != nil {
					tt.check(t, p)
				}
			}
		})
	}
}

func TestSynthesizeGenericProduce(t *testing.T) {
	products := Synthesize("dragon fruit", shared.NewSampler(5))

	require.Len(t, products, 1)
	assert.Equal(t, "Dragon Fruit", products[0].Name)
	assert.Equal(t, Produce, products[0].Category)
}

func TestMatchClusterShortTerms(t *testing.T) {
	_, _, ok := matchCluster("an")
	assert.False(t, ok, "two-letter fragments must not match banana")

	c, idx, ok := matchCluster("mang")
	require.True(t, ok)
	assert.Equal(t, "fruits", c.name)
	assert.Equal(t, "mango", c.keywords[idx])
}

func TestSynthesizeExactKeywordWins(t *testing.T) {
	tests := []struct {
		term       string
		department Department
		first      string
	}{
		{"tea", Beverages, "Tea"},
		{"pineapple", Produce, "Pineapple"},
		{"cottage cheese", DairyEggs, "Cottage Cheese"},
		{"steak", MeatSeafood, "Steak"},
		{"pepper", Produce, "Bell Pepper"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			products := Synthesize(tt.term, shared.NewSampler(1))
			require.NotEmpty(t, products)
			assert.Equal(t, tt.first, products[0].Name)
			for _, p := range products {
				assert.Equal(t, tt.department, p.Category)
			}
		})
	}
}

func TestSynthesizeNoMidWordFragments(t *testing.T) {
	products := Synthesize("ice", shared.NewSampler(1))

	require.Len(t, products, 1, "ice must not land on rice")
	assert.Equal(t, "Ice", products[0].Name)
	assert.Equal(t, Produce, products[0].Category)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Dragon Fruit", Capitalize("  dragon   FRUIT "))
	assert.Equal(t, "", Capitalize(""))
}
