package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery-planner/internal/cart"
)

var (
	pick int
	qty  int
)

// cartCmd manages the persistent cart of --user
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your cart",
	Long: `Carts persist in the database, one per --user.

Available subcommands:
  add    - search for a product and add one of the results
  list   - show the cart
  set    - change the quantity of a line
  remove - remove a line by product id
  clear  - empty the cart`,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [term]",
	Short: "Search for a product and add it to the cart",
	Long: `Runs a search and adds the --pick'th result (1-based) to the cart.

Example:
  grocery-planner cart add "greek yogurt" --qty 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCartAdd,
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartList,
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [quantity]",
	Short: "Change the quantity of a product in the cart",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().IntVar(&pick, "pick", 1, "which search result to add")
	cartAddCmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	cartCmd.AddCommand(cartAddCmd, cartListCmd, cartSetCmd, cartRemoveCmd, cartClearCmd)
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	if qty <= 0 {
		return cart.ErrInvalidQuantity
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := contextOf(cmd)
	term := strings.Join(args, " ")
	products, _ := a.Search(ctx, term)
	if len(products) == 0 {
		return fmt.Errorf("no products found for %q", term)
	}
	if pick < 1 || pick > len(products) {
		return fmt.Errorf("--pick must be between 1 and %d", len(products))
	}

	p, err := a.AddToCart(ctx, userID, products[pick-1].ID, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d × %s (id %d)\n", qty, p.Name, p.ID)
	return nil
}

func runCartList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.Cart(contextOf(cmd), userID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, c)
	}
	printCart(cmd, c)
	return nil
}

func printCart(cmd *cobra.Command, c *cart.Cart) {
	out := cmd.OutOrStdout()
	if c.Empty() {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQTY\tNAME\tSUBTOTAL")
	for _, l := range c.Lines {
		fmt.Fprintf(w, "%d\t%d\t%s\t$%.2f\n", l.Product.ID, l.Quantity, l.Product.Name, l.Product.Price*float64(l.Quantity))
	}
	w.Flush()
	fmt.Fprintf(out, "\nTotal: $%.2f\n", c.Total())
}

func runCartSet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := a.SetQuantity(contextOf(cmd), userID, id, n)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product %d is not in the cart", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set product %d to %d\n", id, n)
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.RemoveFromCart(contextOf(cmd), userID, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("product %d is not in the cart", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed product %d\n", id)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.ClearCart(contextOf(cmd), userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d line(s)\n", n)
	return nil
}
