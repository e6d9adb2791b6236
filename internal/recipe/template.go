package recipe

import (
	"strings"

	"grocery-planner/internal/ingredient"
)

// Part is one piece of a template pattern: literal text, a required slot, or
// an optional slot with a lead-in phrase.
type Part struct {
	text     string
	slot     ingredient.Category
	lead     string
	isSlot   bool
	optional bool
}

// Text is a literal part.
func Text(s string) Part { return Part{text: s} }

// Slot renders the display name of the ingredient bound to category c.
func Slot(c ingredient.Category) Part { return Part{slot: c, isSlot: true} }

// Opt renders "lead <name>" when category c is bound and nothing otherwise.
func Opt(lead string, c ingredient.Category) Part {
	return Part{slot: c, lead: lead, isSlot: true, optional: true}
}

// Template is a parametrized recipe. Every slot used in Name and Description
// must be declared in Required or Optional.
type Template struct {
	Key          string
	Name         []Part
	Description  []Part
	Required     []ingredient.Category
	Optional     []ingredient.Category
	BaseCalories int
	Diets        []string
}

// SlotCount is the number of declared slots.
func (t Template) SlotCount() int {
	return len(t.Required) + len(t.Optional)
}

// Declares reports whether c is one of the template's slot types.
func (t Template) Declares(c ingredient.Category) bool {
	for _, s := range t.Required {
		if s == c {
			return true
		}
	}
	for _, s := range t.Optional {
		if s == c {
			return true
		}
	}
	return false
}

// Fill renders name and description with the bound display names.
func (t Template) Fill(bound map[ingredient.Category]string) (name, description string) {
	return render(t.Name, bound), render(t.Description, bound)
}

func render(parts []Part, bound map[ingredient.Category]string) string {
	var b strings.Builder
	for _, p := range parts {
		if !p.isSlot {
			b.WriteString(p.text)
			continue
		}
		v, ok := bound[p.slot]
		if !ok {
			continue
		}
		if p.optional {
			b.WriteString(" " + p.lead + " ")
		}
		b.WriteString(DisplayName(v))
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	out = strings.ReplaceAll(out, " ,", ",")
	out = strings.ReplaceAll(out, " .", ".")
	return out
}

// DisplayName is the text of an ingredient name before its first comma.
func DisplayName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Templates is the built-in template set.
var Templates = []Template{
	{
		Key:          "stir-fry",
		Name:         []Part{Slot(ingredient.Protein), Text(" & "), Slot(ingredient.Vegetable), Text(" Stir-Fry")},
		Description:  []Part{Text("Wok-tossed "), Slot(ingredient.Protein), Text(" with crisp "), Slot(ingredient.Vegetable), Opt("over", ingredient.Grain), Opt("and a splash of", ingredient.Condiment), Text(".")},
		Required:     []ingredient.Category{ingredient.Protein, ingredient.Vegetable},
		Optional:     []ingredient.Category{ingredient.Grain, ingredient.Condiment},
		BaseCalories: 380,
		Diets:        []string{"High-Protein", "Low-Carb", "Gluten-Free", "Paleo", "Vegan"},
	},
	{
		Key:          "grain-bowl",
		Name:         []Part{Slot(ingredient.Grain), Text(" Bowl with Roasted "), Slot(ingredient.Vegetable)},
		Description:  []Part{Text("A hearty bowl of "), Slot(ingredient.Grain), Text(" topped with roasted "), Slot(ingredient.Vegetable), Opt("and", ingredient.Protein), Opt("finished with fresh", ingredient.Herb), Text(".")},
		Required:     []ingredient.Category{ingredient.Grain, ingredient.Vegetable},
		Optional:     []ingredient.Category{ingredient.Protein, ingredient.Herb},
		BaseCalories: 420,
		Diets:        []string{"Vegan", "Vegetarian", "High-Protein", "Mediterranean"},
	},
	{
		Key:          "smoothie",
		Name:         []Part{Slot(ingredient.Fruit), Text(" Smoothie")},
		Description:  []Part{Text("Blended "), Slot(ingredient.Fruit), Opt("with creamy", ingredient.Dairy), Opt("and a spoonful of", ingredient.NutsSeeds), Text(".")},
		Required:     []ingredient.Category{ingredient.Fruit},
		Optional:     []ingredient.Category{ingredient.Dairy, ingredient.NutsSeeds},
		BaseCalories: 220,
		Diets:        []string{"Vegan", "Vegetarian", "Gluten-Free", "High-Protein"},
	},
	{
		Key:          "roasted-salad",
		Name:         []Part{Text("Roasted "), Slot(ingredient.Vegetable), Text(" Salad")},
		Description:  []Part{Text("Oven-roasted "), Slot(ingredient.Vegetable), Text(" tossed warm"), Opt("with toasted", ingredient.NutsSeeds), Opt("and crumbled", ingredient.Dairy), Opt("under a handful of", ingredient.Herb), Text(".")},
		Required:     []ingredient.Category{ingredient.Vegetable},
		Optional:     []ingredient.Category{ingredient.NutsSeeds, ingredient.Dairy, ingredient.Herb},
		BaseCalories: 260,
		Diets:        []string{"Vegan", "Vegetarian", "Gluten-Free", "Keto", "Paleo", "Low-Carb", "Mediterranean"},
	},
	{
		Key:          "herb-crusted",
		Name:         []Part{Slot(ingredient.Herb), Text("-Crusted "), Slot(ingredient.Protein)},
		Description:  []Part{Slot(ingredient.Protein), Text(" coated in chopped "), Slot(ingredient.Herb), Text(" and seared"), Opt("alongside", ingredient.Vegetable), Text(".")},
		Required:     []ingredient.Category{ingredient.Protein, ingredient.Herb},
		Optional:     []ingredient.Category{ingredient.Vegetable},
		BaseCalories: 450,
		Diets:        []string{"High-Protein", "Low-Carb", "Keto", "Paleo", "Gluten-Free"},
	},
	{
		Key:          "parfait",
		Name:         []Part{Slot(ingredient.Fruit), Text(" "), Slot(ingredient.Dairy), Text(" Parfait")},
		Description:  []Part{Text("Layers of "), Slot(ingredient.Dairy), Text(" and "), Slot(ingredient.Fruit), Opt("with crunchy", ingredient.Grain), Opt("sprinkled with", ingredient.NutsSeeds), Text(".")},
		Required:     []ingredient.Category{ingredient.Fruit, ingredient.Dairy},
		Optional:     []ingredient.Category{ingredient.Grain, ingredient.NutsSeeds},
		BaseCalories: 280,
		Diets:        []string{"Vegetarian", "High-Protein", "Gluten-Free"},
	},
	{
		Key:          "skillet",
		Name:         []Part{Slot(ingredient.Protein), Text(" and "), Slot(ingredient.Grain), Text(" Skillet")},
		Description:  []Part{Text("One-pan "), Slot(ingredient.Protein), Text(" simmered with "), Slot(ingredient.Grain), Opt("and", ingredient.Vegetable), Opt("seasoned with", ingredient.Condiment), Text(".")},
		Required:     []ingredient.Category{ingredient.Protein, ingredient.Grain},
		Optional:     []ingredient.Category{ingredient.Vegetable, ingredient.Condiment},
		BaseCalories: 520,
		Diets:        []string{"High-Protein", "Gluten-Free"},
	},
	{
		Key:          "mediterranean-plate",
		Name:         []Part{Text("Mediterranean "), Slot(ingredient.Vegetable), Text(" Plate")},
		Description:  []Part{Text("Fresh "), Slot(ingredient.Vegetable), Text(" dressed with "), Slot(ingredient.Condiment), Opt("on a bed of", ingredient.Grain), Opt("with", ingredient.Dairy), Text(".")},
		Required:     []ingredient.Category{ingredient.Vegetable, ingredient.Condiment},
		Optional:     []ingredient.Category{ingredient.Grain, ingredient.Dairy},
		BaseCalories: 340,
		Diets:        []string{"Mediterranean", "Vegetarian", "Vegan", "Gluten-Free"},
	},
}
