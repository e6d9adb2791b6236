// Package nutrition totals the nutrition of selected items and derives daily
// values, macro-energy balance and recommendations.
package nutrition

import (
	"math"
	"strconv"

	"grocery-planner/internal/catalog"
)

// Daily reference values.
var DailyValues = catalog.Nutrition{Calories: 2000, Protein: 50, Carbs: 275, Fat: 78, Fiber: 28}

// Catalog resolves product ids. catalog.Store and cart.Cart implement it.
type Catalog interface {
	Product(id int) (catalog.Product, bool)
}

// MacroSplit is the share of energy from each macronutrient, in percent.
type MacroSplit struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// DefaultSplit is reported when there is no energy to split.
var DefaultSplit = MacroSplit{Protein: 33, Carbs: 33, Fat: 34}

// DailyValue is each total as a percentage of its daily value. Values are not
// clamped.
type DailyValue struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Fiber    int `json:"fiber"`
}

// Density is the nutrient density score. Valid is false when there are no
// calories to score against.
type Density struct {
	Score int    `json:"score"`
	Valid bool   `json:"valid"`
	Label string `json:"label"`
}

// String renders the score, or "N/A".
func (d Density) String() string {
	if !d.Valid {
		return "N/A"
	}
	return strconv.Itoa(d.Score)
}

// Totals is the aggregate for one selection.
type Totals struct {
	catalog.Nutrition
	Items           int        `json:"items"`
	DailyValue      DailyValue `json:"daily_value"`
	Macros          MacroSplit `json:"macros"`
	Density         Density    `json:"density"`
	Recommendations []string   `json:"recommendations"`
}

// Aggregate sums nutrition over ids. Missing or non-positive multipliers count
// as 1; ids the catalog does not know are skipped.
func Aggregate(ids []int, multipliers map[int]float64, cat Catalog) Totals {
	var sum catalog.Nutrition
	items := 0
	for _, id := range ids {
		p, ok := cat.Product(id)
		if !ok {
			continue
		}
		m := multipliers[id]
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			m = 1
		}
		sum.Calories += p.Nutrition.Calories * m
		sum.Protein += p.Nutrition.Protein * m
		sum.Carbs += p.Nutrition.Carbs * m
		sum.Fat += p.Nutrition.Fat * m
		sum.Fiber += p.Nutrition.Fiber * m
		items++
	}

	n := catalog.Nutrition{
		Calories: round1(sum.Calories),
		Protein:  round1(sum.Protein),
		Carbs:    round1(sum.Carbs),
		Fat:      round1(sum.Fat),
		Fiber:    round1(sum.Fiber),
	}
	macros := Macros(n)
	return Totals{
		Nutrition:       n,
		Items:           items,
		DailyValue:      DailyValuePercent(n),
		Macros:          macros,
		Density:         Score(n),
		Recommendations: Recommend(n, macros),
	}
}

// DailyValuePercent expresses n against DailyValues.
func DailyValuePercent(n catalog.Nutrition) DailyValue {
	pct := func(v, dv float64) int { return int(math.Round(100 * v / dv)) }
	return DailyValue{
		Calories: pct(n.Calories, DailyValues.Calories),
		Protein:  pct(n.Protein, DailyValues.Protein),
		Carbs:    pct(n.Carbs, DailyValues.Carbs),
		Fat:      pct(n.Fat, DailyValues.Fat),
		Fiber:    pct(n.Fiber, DailyValues.Fiber),
	}
}

// Macros is the share of calories from each macronutrient at 4/4/9 kcal per
// gram. Shares only sum to 100 when calories agree with the macros. Zero
// calories yields DefaultSplit.
func Macros(n catalog.Nutrition) MacroSplit {
	if n.Calories <= 0 {
		return DefaultSplit
	}
	pct := func(kcal float64) int { return int(math.Round(kcal / n.Calories * 100)) }
	return MacroSplit{
		Protein: pct(n.Protein * 4),
		Carbs:   pct(n.Carbs * 4),
		Fat:     pct(n.Fat * 9),
	}
}

var densityLabels = []struct {
	above int
	label string
}{
	{30, "Excellent"},
	{20, "Very Good"},
	{15, "Good"},
	{10, "Average"},
}

// Score computes the nutrient density score.
func Score(n catalog.Nutrition) Density {
	if n.Calories <= 0 {
		return Density{Label: "N/A"}
	}
	score := int(math.Round(1000*n.Protein/n.Calories + 1000*n.Fiber/n.Calories))
	label := "Could improve"
	for _, l := range densityLabels {
		if score > l.above {
			label = l.label
			break
		}
	}
	return Density{Score: score, Valid: true, Label: label}
}

// Advisory messages.
const (
	MsgSelectItems = "Select some items to get personalized nutrition recommendations."
	MsgBalanced    = "Great balance! Your selection has a healthy mix of macronutrients."
	MsgLowProtein  = "Consider adding lean protein such as chicken, fish, tofu or beans."
	MsgHighProtein = "Protein is high; balance it with more vegetables and whole grains."
	MsgLowCarbs    = "Carbohydrates are low; whole grains and fruit add steady energy."
	MsgHighCarbs   = "Carbohydrates are high; swap some starches for vegetables or protein."
	MsgLowFat      = "Healthy fats are low; try nuts, seeds, avocado or olive oil."
	MsgHighFat     = "Fat is high; choose leaner cuts and lighter dressings."
	MsgLowFiber    = "Fiber is low for this many calories; add vegetables, legumes or whole grains."
)

const (
	fiberCalorieMin = 1500
	fiberGramsMin   = 25
)

// Recommend emits one advisory per breached threshold, or a single balanced
// message when none is breached.
func Recommend(n catalog.Nutrition, m MacroSplit) []string {
	if n.Calories <= 0 {
		return []string{MsgSelectItems}
	}

	var out []string
	switch {
	case m.Protein < 15:
		out = append(out, MsgLowProtein)
	case m.Protein > 35:
		out = append(out, MsgHighProtein)
	}
	switch {
	case m.Carbs < 40:
		out = append(out, MsgLowCarbs)
	case m.Carbs > 65:
		out = append(out, MsgHighCarbs)
	}
	switch {
	case m.Fat < 20:
		out = append(out, MsgLowFat)
	case m.Fat > 40:
		out = append(out, MsgHighFat)
	}
	if n.Fiber < fiberGramsMin && n.Calories > fiberCalorieMin {
		out = append(out, MsgLowFiber)
	}

	if len(out) == 0 {
		return []string{MsgBalanced}
	}
	return out
}

// ClampServing snaps a serving multiplier to [0.25, 5] in 0.25 steps.
func ClampServing(m float64) float64 {
	if math.IsNaN(m) {
		return 1
	}
	m = math.Round(m*4) / 4
	return math.Max(0.25, math.Min(5, m))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
