package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"grocery-planner/internal/recipe"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes [item...]",
	Short: "Suggest recipes for items or for the cart",
	Long: `Suggests up to four recipes. With no arguments the cart of --user is used.

Example:
  grocery-planner recipes "chicken breast" broccoli "brown rice"`,
	RunE: runRecipes,
}

func runRecipes(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var recipes []recipe.GeneratedRecipe
	if len(args) > 0 {
		recipes = a.RecipesFor(args)
	} else {
		recipes, err = a.CartRecipes(contextOf(cmd), userID)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return printJSON(cmd, recipes)
	}
	out := cmd.OutOrStdout()
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No recipe ideas. Try adding a protein, a vegetable or a grain.")
		return nil
	}
	for i, r := range recipes {
		fmt.Fprintf(out, "%d. %s (%d%% match, %d kcal)\n", i+1, r.Name, r.MatchPercentage, r.Calories)
		if r.Description != "" {
			fmt.Fprintf(out, "   %s\n", r.Description)
		}
		fmt.Fprintf(out, "   Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
		if len(r.DietTypes) > 0 {
			fmt.Fprintf(out, "   Diets: %s\n", strings.Join(r.DietTypes, ", "))
		}
		if r.URL != "" {
			fmt.Fprintf(out, "   %s\n", r.URL)
		}
	}
	return nil
}
