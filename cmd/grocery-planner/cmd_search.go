package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery-planner/internal/catalog"
	"grocery-planner/internal/shared"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Find products matching a term",
	Long: `Looks the term up in the catalog first, then the external product
database, and finally synthesizes plausible products. A search always
returns something for a non-blank term.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

type searchResult struct {
	Term     string               `json:"term"`
	Outcome  shared.SearchOutcome `json:"outcome"`
	Products []catalog.Product    `json:"products"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	term := strings.Join(args, " ")
	products, outcome := a.Search(contextOf(cmd), term)
	if jsonOutput {
		return printJSON(cmd, searchResult{Term: term, Outcome: outcome, Products: products})
	}

	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintf(out, "No products found for %q.\n", term)
		return nil
	}
	fmt.Fprintf(out, "%d result(s) for %q (%s)\n\n", len(products), term, outcome)
	printProducts(cmd, products)
	return nil
}

func printProducts(cmd *cobra.Command, products []catalog.Product) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tDEPARTMENT\tPRICE\tKCAL\tDIETS")
	for i, p := range products {
		name := p.Name
		if p.Organic {
			name += " (organic)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f/%s\t%.0f\t%s\n",
			i+1, name, p.Category, p.Price, p.Unit, p.Nutrition.Calories, strings.Join(p.DietTypes, ", "))
	}
	w.Flush()
}
