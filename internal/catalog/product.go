// Package catalog owns the product model, the append-only catalog cache and
// the synthesizer that resolves search terms into products.
package catalog

import "grocery-planner/internal/ingredient"

// Department is the store department a product is shelved in.
type Department string

const (
	Produce      Department = "Produce"
	MeatSeafood  Department = "Meat & Seafood"
	DairyEggs    Department = "Dairy & Eggs"
	BakeryGrains Department = "Bakery & Grains"
	NutsSeeds    Department = "Nuts & Seeds"
	Beverages    Department = "Beverages"
	Pantry       Department = "Pantry"
	HerbsSpices  Department = "Herbs & Spices"
)

// HouseStore is the store synthesized products are shelved at.
const HouseStore = "FreshMart"

// PlaceholderImage is used when a product has no image.
const PlaceholderImage = "/static/img/product-placeholder.png"

// Nutrition is per unit of sale.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// StoreLocation tells where a product sits inside a store.
type StoreLocation struct {
	Store   string `json:"store"`
	Aisle   string `json:"aisle"`
	Section string `json:"section"`
}

// Product is a catalog entry. Products are immutable once added.
type Product struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Category       Department      `json:"category"`
	Price          float64         `json:"price"`
	Unit           string          `json:"unit"`
	Nutrition      Nutrition       `json:"nutrition"`
	DietTypes      []string        `json:"diet_types"`
	Organic        bool            `json:"organic"`
	ImageURL       string          `json:"image_url"`
	StoreLocations []StoreLocation `json:"store_locations"`
}

type departmentProfile struct {
	nutrition Nutrition
	unit      string
	aisle     string
}

// departmentProfiles holds the defaults used when a source omits a field.
var departmentProfiles = map[Department]departmentProfile{
	Produce:      {Nutrition{60, 1.5, 14, 0.3, 2.5}, "lb", "1"},
	MeatSeafood:  {Nutrition{180, 22, 0, 9, 0}, "lb", "12"},
	DairyEggs:    {Nutrition{120, 8, 9, 6, 0}, "each", "9"},
	BakeryGrains: {Nutrition{200, 6, 38, 2.5, 3}, "bag", "4"},
	NutsSeeds:    {Nutrition{200, 7, 7, 17, 3}, "oz", "6"},
	Beverages:    {Nutrition{50, 0.5, 12, 0, 0}, "bottle", "8"},
	Pantry:       {Nutrition{100, 2, 15, 3, 1}, "each", "5"},
	HerbsSpices:  {Nutrition{5, 0.3, 1, 0.1, 0.5}, "bunch", "2"},
}

// DefaultNutrition returns the department's fallback nutrition.
func DefaultNutrition(d Department) Nutrition {
	return profileFor(d).nutrition
}

// DefaultUnit returns the department's fallback unit of sale.
func DefaultUnit(d Department) string {
	return profileFor(d).unit
}

func profileFor(d Department) departmentProfile {
	if p, ok := departmentProfiles[d]; ok {
		return p
	}
	return departmentProfiles[Pantry]
}

// HouseLocation is the shelf position of a department at the house store.
func HouseLocation(d Department) StoreLocation {
	return StoreLocation{Store: HouseStore, Aisle: profileFor(d).aisle, Section: string(d)}
}

// DepartmentFor maps an ingredient category onto a store department.
func DepartmentFor(c ingredient.Category) Department {
	switch c {
	case ingredient.Protein:
		return MeatSeafood
	case ingredient.Vegetable, ingredient.Fruit:
		return Produce
	case ingredient.Grain:
		return BakeryGrains
	case ingredient.Dairy:
		return DairyEggs
	case ingredient.NutsSeeds:
		return NutsSeeds
	case ingredient.Herb:
		return HerbsSpices
	default:
		return Pantry
	}
}
