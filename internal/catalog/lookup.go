package catalog

import (
	"context"
	"math"
	"strings"

	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/shared"
)

// Lookup is the external product-lookup collaborator.
type Lookup interface {
	Lookup(ctx context.Context, query string) ([]Record, error)
}

// PerHundred is per-100g nutrition as reported by a source. Nil fields are
// absent in the source.
type PerHundred struct {
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Fiber    *float64
}

// Record is one product as returned by a lookup source. Only Name is required.
type Record struct {
	Name         string
	CategoryTags []string
	Nutrition    PerHundred
	LabelTags    []string
	ImageURL     string
	Quantity     string
}

// categoryTags maps source category tags onto departments.
var categoryTags = map[string]Department{
	"en:fruits":                     Produce,
	"en:fresh-fruits":               Produce,
	"en:vegetables":                 Produce,
	"en:fresh-vegetables":           Produce,
	"en:plant-based-foods":          Produce,
	"en:meats":                      MeatSeafood,
	"en:poultries":                  MeatSeafood,
	"en:seafood":                    MeatSeafood,
	"en:fishes":                     MeatSeafood,
	"en:dairies":                    DairyEggs,
	"en:cheeses":                    DairyEggs,
	"en:milks":                      DairyEggs,
	"en:yogurts":                    DairyEggs,
	"en:eggs":                       DairyEggs,
	"en:breads":                     BakeryGrains,
	"en:pastas":                     BakeryGrains,
	"en:cereals-and-potatoes":       BakeryGrains,
	"en:cereals-and-their-products": BakeryGrains,
	"en:breakfast-cereals":          BakeryGrains,
	"en:nuts":                       NutsSeeds,
	"en:seeds":                      NutsSeeds,
	"en:nuts-and-their-products":    NutsSeeds,
	"en:beverages":                  Beverages,
	"en:plant-based-beverages":      Beverages,
	"en:condiments":                 Pantry,
	"en:sauces":                     Pantry,
	"en:snacks":                     Pantry,
	"en:herbs":                      HerbsSpices,
	"en:spices":                     HerbsSpices,
}

// labelDiets maps source label tags onto diet tags.
var labelDiets = []struct {
	tag  string
	diet string
}{
	{"en:vegan", "Vegan"},
	{"en:vegetarian", "Vegetarian"},
	{"en:gluten-free", "Gluten-Free"},
	{"en:no-gluten", "Gluten-Free"},
	{"en:organic", "Organic"},
}

const (
	lookupPriceMin = 1.99
	lookupPriceMax = 9.99
)

// departmentForRecord uses the first mapped category tag, falling back to the
// ingredient classifier on the record name.
func departmentForRecord(rec Record) Department {
	for _, tag := range rec.CategoryTags {
		if d, ok := categoryTags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return d
		}
	}
	return DepartmentFor(ingredient.Categorize(rec.Name))
}

// FromRecord maps a lookup record into an unsaved product (ID zero).
func FromRecord(rec Record, sampler shared.Sampler) Product {
	dept := departmentForRecord(rec)
	def := DefaultNutrition(dept)

	n := Nutrition{
		Calories: orDefault(rec.Nutrition.Calories, def.Calories),
		Protein:  orDefault(rec.Nutrition.Protein, def.Protein),
		Carbs:    orDefault(rec.Nutrition.Carbs, def.Carbs),
		Fat:      orDefault(rec.Nutrition.Fat, def.Fat),
		Fiber:    orDefault(rec.Nutrition.Fiber, def.Fiber),
	}

	unit := strings.TrimSpace(rec.Quantity)
	if unit == "" {
		unit = DefaultUnit(dept)
	}

	image := rec.ImageURL
	if image == "" {
		image = PlaceholderImage
	}

	var diets []string
	organic := false
	seen := make(map[string]bool)
	for _, label := range rec.LabelTags {
		label = strings.ToLower(strings.TrimSpace(label))
		for _, ld := range labelDiets {
			if label != ld.tag {
				continue
			}
			if ld.diet == "Organic" {
				organic = true
				continue
			}
			if !seen[ld.diet] {
				seen[ld.diet] = true
				diets = append(diets, ld.diet)
			}
		}
	}

	return Product{
		Name:           strings.TrimSpace(rec.Name),
		Category:       dept,
		Price:          roundTo(shared.Uniform(sampler, lookupPriceMin, lookupPriceMax), 2),
		Unit:           unit,
		Nutrition:      n,
		DietTypes:      diets,
		Organic:        organic,
		ImageURL:       image,
		StoreLocations: []StoreLocation{HouseLocation(dept)},
	}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return def
	}
	return roundTo(*v, 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
