package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery-planner/internal/catalog"
)

var department string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the products known to this session",
	Long: `Lists the staple products with their ids. Product ids are assigned per
session and continue above any id already stored in a cart.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&department, "department", "", `only list this department, e.g. "Produce"`)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var products []catalog.Product
	for _, p := range a.Catalog() {
		if department == "" || strings.EqualFold(string(p.Category), department) {
			products = append(products, p)
		}
	}
	if jsonOutput {
		return printJSON(cmd, products)
	}

	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f/%s\n", p.ID, p.Name, p.Category, p.Price, p.Unit)
	}
	return w.Flush()
}
