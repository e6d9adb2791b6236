package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-planner/internal/catalog"
	"grocery-planner/internal/shared"
)

type mapCatalog map[int]catalog.Product

func (m mapCatalog) Product(id int) (catalog.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func product(id int, n catalog.Nutrition) catalog.Product {
	return catalog.Product{ID: id, Name: "item", Nutrition: n}
}

var sample = mapCatalog{
	1: product(1, catalog.Nutrition{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0}),
	2: product(2, catalog.Nutrition{Calories: 55, Protein: 3.7, Carbs: 11.2, Fat: 0.6, Fiber: 5.1}),
	3: product(3, catalog.Nutrition{Calories: 216, Protein: 5, Carbs: 45, Fat: 1.8, Fiber: 3.5}),
}

func TestAggregate(t *testing.T) {
	totals := Aggregate([]int{1, 2, 3}, map[int]float64{1: 2}, sample)

	assert.Equal(t, 3, totals.Items)
	assert.Equal(t, 601.0, totals.Calories)
	assert.Equal(t, 70.7, totals.Protein)
	assert.Equal(t, 56.2, totals.Carbs)
	assert.Equal(t, 9.6, totals.Fat)
	assert.Equal(t, 8.6, totals.Fiber)

	assert.Equal(t, DailyValue{Calories: 30, Protein: 141, Carbs: 20, Fat: 12, Fiber: 31}, totals.DailyValue)
	assert.True(t, totals.Density.Valid)
	assert.Equal(t, 132, totals.Density.Score)
	assert.Equal(t, "Excellent", totals.Density.Label)
}

func TestAggregateSkipsUnknownAndDefaultsMultipliers(t *testing.T) {
	totals := Aggregate([]int{2, 99}, map[int]float64{2: -3, 99: 4}, sample)

	assert.Equal(t, 1, totals.Items)
	assert.Equal(t, 55.0, totals.Calories)

	empty := Aggregate(nil, nil, sample)
	assert.Zero(t, empty.Calories)
	assert.Equal(t, DefaultSplit, empty.Macros)
	assert.Equal(t, []string{MsgSelectItems}, empty.Recommendations)
}

func TestDoublingMultipliersDoublesTotals(t *testing.T) {
	sampler := shared.NewSampler(5)
	for trial := 0; trial < 50; trial++ {
		cat := mapCatalog{}
		ids := make([]int, 0, 6)
		base := map[int]float64{}
		doubled := map[int]float64{}
		for id := 1; id <= 6; id++ {
			cat[id] = product(id, catalog.Nutrition{
				Calories: math.Round(shared.Uniform(sampler, 0, 400)),
				Protein:  math.Round(shared.Uniform(sampler, 0, 30)*10) / 10,
				Carbs:    math.Round(shared.Uniform(sampler, 0, 60)*10) / 10,
				Fat:      math.Round(shared.Uniform(sampler, 0, 25)*10) / 10,
				Fiber:    math.Round(shared.Uniform(sampler, 0, 8)*10) / 10,
			})
			ids = append(ids, id)
			m := float64(1+sampler.IntN(20)) * 0.25
			base[id] = m
			doubled[id] = 2 * m
		}

		a := Aggregate(ids, base, cat)
		b := Aggregate(ids, doubled, cat)
		assert.InDelta(t, 2*a.Calories, b.Calories, 0.11)
		assert.InDelta(t, 2*a.Protein, b.Protein, 0.11)
		assert.InDelta(t, 2*a.Carbs, b.Carbs, 0.11)
		assert.InDelta(t, 2*a.Fat, b.Fat, 0.11)
		assert.InDelta(t, 2*a.Fiber, b.Fiber, 0.11)
	}
}

func TestMacros(t *testing.T) {
	t.Run("shares of calories", func(t *testing.T) {
		// 124 kcal protein and 32.4 kcal fat out of 165.
		m := Macros(catalog.Nutrition{Calories: 165, Protein: 31, Fat: 3.6})
		assert.Equal(t, MacroSplit{Protein: 75, Carbs: 0, Fat: 20}, m)
	})

	t.Run("consistent calories", func(t *testing.T) {
		// 25 g protein, 50 g carbs, 10 g fat = 100 + 200 + 90 kcal.
		m := Macros(catalog.Nutrition{Calories: 390, Protein: 25, Carbs: 50, Fat: 10})
		assert.Equal(t, MacroSplit{Protein: 26, Carbs: 51, Fat: 23}, m)
	})

	t.Run("consistent calories sum to 100", func(t *testing.T) {
		sampler := shared.NewSampler(8)
		for i := 0; i < 500; i++ {
			n := catalog.Nutrition{
				Protein: shared.Uniform(sampler, 0.1, 200),
				Carbs:   shared.Uniform(sampler, 0, 400),
				Fat:     shared.Uniform(sampler, 0, 150),
			}
			n.Calories = 4*n.Protein + 4*n.Carbs + 9*n.Fat
			m := Macros(n)
			sum := m.Protein + m.Carbs + m.Fat
			assert.GreaterOrEqual(t, sum, 99)
			assert.LessOrEqual(t, sum, 101)
		}
	})

	t.Run("calories without macros", func(t *testing.T) {
		assert.Equal(t, MacroSplit{}, Macros(catalog.Nutrition{Calories: 10}))
	})

	t.Run("zero calories", func(t *testing.T) {
		assert.Equal(t, DefaultSplit, Macros(catalog.Nutrition{Protein: 5}))
	})
}

func TestZeroCalorieSelection(t *testing.T) {
	cat := mapCatalog{
		1: product(1, catalog.Nutrition{}),
		2: product(2, catalog.Nutrition{Fiber: 1}),
	}

	totals := Aggregate([]int{1, 2}, nil, cat)

	assert.Equal(t, MacroSplit{33, 33, 34}, totals.Macros)
	assert.False(t, totals.Density.Valid)
	assert.Equal(t, "N/A", totals.Density.Label)
	assert.Equal(t, "N/A", totals.Density.String())
	assert.Equal(t, []string{MsgSelectItems}, totals.Recommendations)
}

func TestScoreLabels(t *testing.T) {
	tests := []struct {
		protein, fiber float64
		score          int
		label          string
	}{
		{31, 0, 31, "Excellent"},
		{30, 0, 30, "Very Good"},
		{20, 1, 21, "Very Good"},
		{16, 0, 16, "Good"},
		{15, 0, 15, "Average"},
		{11, 0, 11, "Average"},
		{10, 0, 10, "Could improve"},
		{0, 0, 0, "Could improve"},
	}
	for _, tt := range tests {
		d := Score(catalog.Nutrition{Calories: 1000, Protein: tt.protein, Fiber: tt.fiber})
		assert.Equal(t, tt.score, d.Score)
		assert.Equal(t, tt.label, d.Label, "score %d", tt.score)
	}
}

func TestRecommend(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		n := catalog.Nutrition{Calories: 800, Protein: 40, Carbs: 100, Fat: 27, Fiber: 12}
		got := Recommend(n, Macros(n))
		assert.Equal(t, []string{MsgBalanced}, got)
	})

	t.Run("every rule breached", func(t *testing.T) {
		n := catalog.Nutrition{Calories: 2000, Protein: 10, Carbs: 60, Fat: 190, Fiber: 5}
		got := Recommend(n, Macros(n))
		assert.Equal(t, []string{MsgLowProtein, MsgLowCarbs, MsgHighFat, MsgLowFiber}, got)
	})

	t.Run("high protein and carbs", func(t *testing.T) {
		got := Recommend(catalog.Nutrition{Calories: 500}, MacroSplit{Protein: 36, Carbs: 66, Fat: 25})
		assert.Equal(t, []string{MsgHighProtein, MsgHighCarbs}, got)
	})

	t.Run("low fat", func(t *testing.T) {
		got := Recommend(catalog.Nutrition{Calories: 500}, MacroSplit{Protein: 20, Carbs: 65, Fat: 15})
		require.Len(t, got, 1)
		assert.Equal(t, MsgLowFat, got[0])
	})
}

func TestClampServing(t *testing.T) {
	tests := map[float64]float64{
		0:    0.25,
		-2:   0.25,
		0.3:  0.25,
		0.4:  0.5,
		1:    1,
		2.6:  2.5,
		2.65: 2.75,
		7:    5,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClampServing(in), "in=%v", in)
	}
	assert.Equal(t, 1.0, ClampServing(math.NaN()))
}
