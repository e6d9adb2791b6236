package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grocery-planner/internal/nutrition"
)

var servings []float64

var nutritionCmd = &cobra.Command{
	Use:   "nutrition [term...]",
	Short: "Total the nutrition of products or of the cart",
	Long: `Each term is searched and its first result counted. --serving sets the
multiplier for each term in order (snapped to 0.25 steps between 0.25 and 5).
With no arguments the cart of --user is totalled, using quantities as servings.

Example:
  grocery-planner nutrition salmon spinach --serving 1.5 --serving 2`,
	RunE: runNutrition,
}

func init() {
	nutritionCmd.Flags().Float64SliceVar(&servings, "serving", nil, "serving multiplier per term")
}

func runNutrition(cmd *cobra.Command, args []string) error {
	if len(servings) > len(args) {
		return fmt.Errorf("got %d --serving values for %d term(s)", len(servings), len(args))
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := contextOf(cmd)
	var totals nutrition.Totals
	if len(args) == 0 {
		totals, err = a.CartNutrition(ctx, userID)
		if err != nil {
			return err
		}
	} else {
		var ids []int
		mults := make(map[int]float64)
		for i, term := range args {
			products, _ := a.Search(ctx, term)
			if len(products) == 0 {
				continue
			}
			id := products[0].ID
			ids = append(ids, id)
			if i < len(servings) {
				mults[id] = nutrition.ClampServing(servings[i])
			}
		}
		totals = a.NutritionFor(ids, mults)
	}

	if jsonOutput {
		return printJSON(cmd, totals)
	}
	printTotals(cmd, totals)
	return nil
}

func printTotals(cmd *cobra.Command, t nutrition.Totals) {
	out := cmd.OutOrStdout()
	if t.Items > 0 {
		fmt.Fprintf(out, "Items:    %d\n", t.Items)
		fmt.Fprintf(out, "Calories: %.0f kcal (%d%% DV)\n", t.Calories, t.DailyValue.Calories)
		fmt.Fprintf(out, "Protein:  %.1f g (%d%% DV)\n", t.Protein, t.DailyValue.Protein)
		fmt.Fprintf(out, "Carbs:    %.1f g (%d%% DV)\n", t.Carbs, t.DailyValue.Carbs)
		fmt.Fprintf(out, "Fat:      %.1f g (%d%% DV)\n", t.Fat, t.DailyValue.Fat)
		fmt.Fprintf(out, "Fiber:    %.1f g (%d%% DV)\n", t.Fiber, t.DailyValue.Fiber)
		fmt.Fprintf(out, "Macros:   %d%% protein / %d%% carbs / %d%% fat\n", t.Macros.Protein, t.Macros.Carbs, t.Macros.Fat)
		fmt.Fprintf(out, "Density:  %s (%s)\n\n", t.Density, t.Density.Label)
	}
	for _, r := range t.Recommendations {
		fmt.Fprintf(out, "* %s\n", r)
	}
}
