package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery-planner/internal/locator"
)

var (
	lat float64
	lng float64
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Rank stores near a position",
	Long: `Ranks the stores of the nearest region by distance. Without --lat and
--lng (or with an invalid position) stores near Minneapolis are shown.`,
	Args: cobra.NoArgs,
	RunE: runStores,
}

func init() {
	storesCmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	storesCmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
}

// positionFlags reports the position given on the command line. A missing
// position is treated as denied access.
type positionFlags struct {
	set bool
	at  locator.Coordinate
}

func (p positionFlags) Locate(ctx context.Context) (locator.Coordinate, error) {
	if !p.set {
		return locator.Coordinate{}, locator.ErrPermissionDenied
	}
	return locator.Fixed(p.at).Locate(ctx)
}

func runStores(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	flags := cmd.Flags()
	geo := positionFlags{
		set: flags.Changed("lat") && flags.Changed("lng"),
		at:  locator.Coordinate{Lat: lat, Lng: lng},
	}
	res := a.LocateStores(contextOf(cmd), geo)
	if jsonOutput {
		return printJSON(cmd, res)
	}

	out := cmd.OutOrStdout()
	if res.Advisory != "" {
		fmt.Fprintf(out, "Note: %s\n\n", res.Advisory)
	}
	fmt.Fprintf(out, "Stores in %s near %.4f, %.4f\n\n", res.Region, res.At.Lat, res.At.Lng)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tMILES\tRATING\tDELIVERY\tADDRESS")
	for _, s := range res.Stores {
		delivery := "-"
		if s.Delivery {
			delivery = s.EstimatedDelivery()
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\t%s\n", s.Name, s.DistanceMiles, s.Rating, delivery, s.Address)
	}
	return w.Flush()
}
