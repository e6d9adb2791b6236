package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listImported bool
	deleteID     string
)

var importCmd = &cobra.Command{
	Use:   "import-recipe [url]",
	Short: "Import a recipe from a web page into the recipe book",
	Long: `Fetches the page, reads its schema.org Recipe data (or falls back to the
page markup) and stores it. Imported recipes are suggested by "recipes".

With --list, prints the imported recipes. With --delete, removes one by id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&listImported, "list", false, "list imported recipes")
	importCmd.Flags().StringVar(&deleteID, "delete", "", "delete the imported recipe with this id")
}

func runImport(cmd *cobra.Command, args []string) error {
	switch {
	case listImported && deleteID != "":
		return errors.New("--list and --delete cannot be combined")
	case (listImported || deleteID != "") && len(args) > 0:
		return errors.New("a url cannot be combined with --list or --delete")
	case !listImported && deleteID == "" && len(args) == 0:
		return errors.New("a recipe url is required")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := contextOf(cmd)
	out := cmd.OutOrStdout()

	if listImported {
		recipes, err := a.ImportedRecipes(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, recipes)
		}
		if len(recipes) == 0 {
			fmt.Fprintln(out, "No imported recipes.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSOURCE")
		for _, r := range recipes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Title, r.SourceURL)
		}
		return w.Flush()
	}

	if deleteID != "" {
		ok, err := a.DeleteRecipe(ctx, deleteID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no imported recipe with id %q", deleteID)
		}
		fmt.Fprintf(out, "Deleted recipe %s\n", deleteID)
		return nil
	}

	rec, err := a.ImportRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, rec)
	}
	fmt.Fprintf(out, "Imported %q (id %s)\n", rec.Title, rec.ID)
	fmt.Fprintf(out, "Ingredients: %s\n", strings.Join(rec.Ingredients, ", "))
	return nil
}
