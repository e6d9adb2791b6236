package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grocery-planner/internal/cart"
	"grocery-planner/internal/catalog"
	"grocery-planner/internal/locator"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/nutrition"
	"grocery-planner/internal/recipe"
	"grocery-planner/internal/shared"
)

const (
	skipLabel = "Skip"

	// maxAddButtons caps the inline keyboard under search results.
	maxAddButtons = 5
	// maxListed caps how many search results are rendered.
	maxListed = 10
)

const helpText = `🛒 *Grocery Planner*

/search <product> - find products (or just type a name)
/add <id> [qty] - add a product to your cart
/qty <id> <qty> - change a quantity
/remove <id> - remove a product
/cart - show your cart
/clear - empty your cart
/recipes - recipe ideas for your cart
/nutrition - nutrition of your cart
/stores - stores near you
/import <url> - save a recipe from a web page
/imported - list saved recipes`

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape makes s safe inside legacy Markdown.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

var outcomeNotes = map[shared.SearchOutcome]string{
	shared.OutcomeCatalog:     "from the catalog",
	shared.OutcomeLookup:      "from the product database",
	shared.OutcomeSynthesized: "suggested",
}

func formatSearch(term string, products []catalog.Product, outcome shared.SearchOutcome) string {
	if len(products) == 0 {
		return fmt.Sprintf("🔍 No products found for *%s*.", escape(term))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 *%s* (%d %s)\n\n", escape(term), len(products), outcomeNotes[outcome])
	for i, p := range products {
		if i == maxListed {
			fmt.Fprintf(&sb, "_…and %d more_\n", len(products)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "`%d` %s - $%.2f/%s", p.ID, escape(p.Name), p.Price, p.Unit)
		if p.Organic {
			sb.WriteString(" 🌱")
		}
		fmt.Fprintf(&sb, "\n    _%s · %.0f kcal_\n", p.Category, p.Nutrition.Calories)
	}
	sb.WriteString("\nAdd with /add <id> [qty]")
	return sb.String()
}

func addKeyboard(products []catalog.Product) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, p := range products {
		if i == maxAddButtons {
			break
		}
		label := fmt.Sprintf("➕ %s", p.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("add|%d", p.ID)),
		))
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func formatCart(c *cart.Cart) string {
	if c.Empty() {
		return "🛒 Your cart is empty. Try /search."
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Your Cart*\n\n")
	for _, l := range c.Lines {
		fmt.Fprintf(&sb, "`%d` %d × %s - $%.2f\n", l.Product.ID, l.Quantity, escape(l.Product.Name), l.Product.Price*float64(l.Quantity))
	}
	fmt.Fprintf(&sb, "\n*Total:* $%.2f", c.Total())
	return sb.String()
}

func formatRecipes(recipes []recipe.GeneratedRecipe) string {
	if len(recipes) == 0 {
		return "🍳 No recipe ideas yet. Add a protein, a vegetable or a grain to your cart."
	}

	var sb strings.Builder
	sb.WriteString("🍳 *Recipe Ideas*\n")
	for _, r := range recipes {
		fmt.Fprintf(&sb, "\n*%s* (%d%% match, %d kcal)\n", escape(r.Name), r.MatchPercentage, r.Calories)
		if r.Description != "" {
			fmt.Fprintf(&sb, "_%s_\n", escape(r.Description))
		}
		if len(r.DietTypes) > 0 {
			fmt.Fprintf(&sb, "🏷 %s\n", strings.Join(r.DietTypes, ", "))
		}
		if r.URL != "" {
			fmt.Fprintf(&sb, "%s\n", r.URL)
		}
	}
	return sb.String()
}

func formatImported(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "📚 No saved recipes yet. Send /import <url> to add one."
	}

	var sb strings.Builder
	sb.WriteString("📚 *Saved Recipes*\n\n")
	for i, r := range recipes {
		if i == maxListed {
			fmt.Fprintf(&sb, "_...and %d more_\n", len(recipes)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "• *%s* (%d ingredients)\n", escape(r.Title), len(r.Ingredients))
	}
	return sb.String()
}

func formatNutrition(t nutrition.Totals) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Nutrition*\n\n")
	if t.Items > 0 {
		fmt.Fprintf(&sb, "• Calories: %.0f kcal (%d%% DV)\n", t.Calories, t.DailyValue.Calories)
		fmt.Fprintf(&sb, "• Protein: %.1f g (%d%% DV)\n", t.Protein, t.DailyValue.Protein)
		fmt.Fprintf(&sb, "• Carbs: %.1f g (%d%% DV)\n", t.Carbs, t.DailyValue.Carbs)
		fmt.Fprintf(&sb, "• Fat: %.1f g (%d%% DV)\n", t.Fat, t.DailyValue.Fat)
		fmt.Fprintf(&sb, "• Fiber: %.1f g (%d%% DV)\n", t.Fiber, t.DailyValue.Fiber)
		fmt.Fprintf(&sb, "\n*Macros:* %d%% protein · %d%% carbs · %d%% fat\n", t.Macros.Protein, t.Macros.Carbs, t.Macros.Fat)
		fmt.Fprintf(&sb, "*Density:* %s", t.Density)
		if t.Density.Valid {
			fmt.Fprintf(&sb, " (%s)", t.Density.Label)
		}
		sb.WriteString("\n\n")
	}
	for _, rec := range t.Recommendations {
		fmt.Fprintf(&sb, "💡 %s\n", rec)
	}
	return sb.String()
}

func formatStores(res locator.Result) string {
	var sb strings.Builder
	if res.Advisory != "" {
		fmt.Fprintf(&sb, "⚠️ _%s_\n\n", res.Advisory)
	}
	fmt.Fprintf(&sb, "🏪 *Stores near you* (%s)\n\n", res.Region)
	for _, s := range res.Stores {
		fmt.Fprintf(&sb, "*%s* - %.1f mi · ⭐ %.1f\n", escape(s.Name), s.DistanceMiles, s.Rating)
		if s.Address != "" {
			fmt.Fprintf(&sb, "    %s\n", escape(s.Address))
		}
		if s.Delivery {
			fmt.Fprintf(&sb, "    🚚 Delivery in %s\n", s.EstimatedDelivery())
		}
	}
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, stats recipe.Stats, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Searches*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d searches (%d catalog, %d lookup, %d suggested) avg %.0fms\n",
			d.Date, d.Searches, d.Catalog, d.Lookup, d.Synthesized, d.AvgLatencyMS)
	}

	fmt.Fprintf(&sb, "\n📚 *Recipes*: %d imported, %d in book\n", stats.Imported, stats.Book)

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	return sb.String()
}
