package catalog

import (
	"strings"
	"unicode"

	"grocery-planner/internal/shared"
)

// maxSynthesized caps how many products one synthesis produces.
const maxSynthesized = 8

type span struct{ lo, hi float64 }

// cluster is a family of similar keywords with the nutrition and price ranges
// used for products generated from it. Nutrition is per unit of sale.
type cluster struct {
	name       string
	department Department
	keywords   []string
	calories   span
	protein    span
	carbs      span
	fat        span
	fiber      span
	price      span
	units      []string
	diets      []string
}

// clusters is checked in order; the first cluster with a hit wins.
var clusters = []cluster{
	{
		name:       "fruits",
		department: Produce,
		keywords: []string{
			"apple", "banana", "orange", "mango", "strawberry", "blueberry",
			"grape", "pineapple", "peach", "pear", "kiwi", "cherry",
		},
		calories: span{20, 120}, protein: span{0.2, 2}, carbs: span{5, 30},
		fat: span{0, 1}, fiber: span{1, 5}, price: span{0.99, 4.99},
		units: []string{"lb", "each"},
		diets: []string{"Vegan", "Vegetarian", "Gluten-Free", "Paleo"},
	},
	{
		name:       "vegetables",
		department: Produce,
		keywords: []string{
			"broccoli", "spinach", "carrot", "kale", "lettuce", "tomato",
			"cucumber", "bell pepper", "zucchini", "cauliflower",
		},
		calories: span{20, 120}, protein: span{0.5, 3}, carbs: span{3, 20},
		fat: span{0, 1}, fiber: span{1, 5}, price: span{0.99, 4.49},
		units: []string{"lb", "bunch", "each"},
		diets: []string{"Vegan", "Vegetarian", "Gluten-Free", "Paleo", "Keto"},
	},
	{
		name:       "protein",
		department: MeatSeafood,
		keywords: []string{
			"chicken", "beef", "salmon", "tuna", "shrimp", "turkey", "pork",
			"tofu", "eggs", "steak",
		},
		calories: span{100, 250}, protein: span{15, 25}, carbs: span{0, 2},
		fat: span{2, 15}, fiber: span{0, 0}, price: span{4.99, 12.99},
		units: []string{"lb"},
		diets: []string{"High-Protein", "Gluten-Free", "Keto"},
	},
	{
		name:       "dairy",
		department: DairyEggs,
		keywords: []string{
			"milk", "cheese", "yogurt", "butter", "cream", "cottage cheese",
		},
		calories: span{60, 180}, protein: span{3, 12}, carbs: span{1, 12},
		fat: span{1, 10}, fiber: span{0, 0}, price: span{1.99, 6.99},
		units: []string{"each", "gallon", "oz"},
		diets: []string{"Vegetarian", "Gluten-Free"},
	},
	{
		name:       "grains",
		department: BakeryGrains,
		keywords: []string{
			"rice", "quinoa", "oats", "pasta", "bread", "barley", "couscous",
		},
		calories: span{100, 250}, protein: span{3, 8}, carbs: span{20, 45},
		fat: span{0.5, 3}, fiber: span{1, 6}, price: span{1.49, 5.99},
		units: []string{"bag", "box", "loaf"},
		diets: []string{"Vegan", "Vegetarian"},
	},
	{
		name:       "nuts_seeds",
		department: NutsSeeds,
		keywords: []string{
			"almonds", "walnuts", "cashews", "peanuts", "chia seeds",
			"flax seeds", "pumpkin seeds",
		},
		calories: span{150, 250}, protein: span{5, 9}, carbs: span{4, 10},
		fat: span{12, 22}, fiber: span{2, 6}, price: span{3.99, 9.99},
		units: []string{"oz", "bag"},
		diets: []string{"Vegan", "Vegetarian", "Paleo", "Keto", "Gluten-Free"},
	},
	{
		name:       "beverages",
		department: Beverages,
		keywords: []string{
			"juice", "coffee", "tea", "sparkling water", "kombucha", "smoothie",
		},
		calories: span{0, 150}, protein: span{0, 2}, carbs: span{0, 30},
		fat: span{0, 2}, fiber: span{0, 1}, price: span{1.49, 5.99},
		units: []string{"bottle", "can"},
		diets: []string{"Vegan", "Vegetarian"},
	},
}

// genericProduce shapes the single item synthesized for unmatched terms.
var genericProduce = clusters[0]

// minReverseMatch is the shortest term allowed to match as a keyword prefix
// ("man" → "mango").
const minReverseMatch = 3

// matchCluster finds the keyword that best names term and returns its
// cluster and index. Keywords contained in term win across all clusters,
// longest first, so "pineapple" beats "apple" and "steak" beats "tea". Only
// when none is contained does term match as the prefix of a keyword word.
func matchCluster(term string) (cluster, int, bool) {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return cluster{}, 0, false
	}

	best, bestIdx, bestLen := -1, 0, 0
	for ci, c := range clusters {
		for i, kw := range c.keywords {
			if len(kw) > bestLen && strings.Contains(t, kw) {
				best, bestIdx, bestLen = ci, i, len(kw)
			}
		}
	}
	if best >= 0 {
		return clusters[best], bestIdx, true
	}

	if len(t) < minReverseMatch {
		return cluster{}, 0, false
	}
	for _, c := range clusters {
		for i, kw := range c.keywords {
			for _, w := range strings.Fields(kw) {
				if strings.HasPrefix(w, t) {
					return c, i, true
				}
			}
		}
	}
	return cluster{}, 0, false
}

// Synthesize generates unsaved products for term. A cluster hit yields the
// matched keyword first and then the rest of the cluster, capped at
// maxSynthesized. Anything else yields one generic Produce item.
func Synthesize(term string, sampler shared.Sampler) []Product {
	c, hit, ok := matchCluster(term)
	if !ok {
		return []Product{generate(genericProduce, Produce, Capitalize(term), sampler)}
	}

	names := make([]string, 0, len(c.keywords))
	names = append(names, c.keywords[hit])
	for i, kw := range c.keywords {
		if i != hit {
			names = append(names, kw)
		}
	}
	if len(names) > maxSynthesized {
		names = names[:maxSynthesized]
	}

	out := make([]Product, 0, len(names))
	for _, n := range names {
		out = append(out, generate(c, c.department, Capitalize(n), sampler))
	}
	return out
}

func generate(c cluster, dept Department, name string, sampler shared.Sampler) Product {
	draw := func(s span) float64 {
		if s.hi <= s.lo {
			return s.lo
		}
		return shared.Uniform(sampler, s.lo, s.hi)
	}

	organic := sampler.Float64() < 0.3
	diets := append([]string(nil), c.diets...)

	return Product{
		Name:     name,
		Category: dept,
		Price:    roundTo(draw(c.price), 2),
		Unit:     c.units[sampler.IntN(len(c.units))],
		Nutrition: Nutrition{
			Calories: roundTo(draw(c.calories), 0),
			Protein:  roundTo(draw(c.protein), 1),
			Carbs:    roundTo(draw(c.carbs), 1),
			Fat:      roundTo(draw(c.fat), 1),
			Fiber:    roundTo(draw(c.fiber), 1),
		},
		DietTypes:      diets,
		Organic:        organic,
		ImageURL:       PlaceholderImage,
		StoreLocations: []StoreLocation{HouseLocation(dept)},
	}
}

// Capitalize upper-cases the first letter of every word.
func Capitalize(term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
