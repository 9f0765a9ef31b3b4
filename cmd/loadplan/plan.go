package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"cargo-layout-service/internal/adapters/importer"
	"cargo-layout-service/internal/api/dto"
	"cargo-layout-service/internal/domain"
	"cargo-layout-service/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:   "plan <crates.csv>",
	Short: "Compute a layout for crates read from a CSV file",
	Long: `Reads crates from a CSV file (columns matched case-insensitively:
label, length, width, height, weight; optional: unit, stackable,
stack_target) and prints the computed layout. Malformed rows are skipped
and reported on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Float64("truck-length", 0, "truck bed length")
	planCmd.Flags().Float64("truck-width", 0, "truck bed width")
	planCmd.Flags().Float64("truck-height", 0, "truck bed height")
	planCmd.Flags().String("unit", "", "truck dimension unit (m or cm)")
	planCmd.Flags().Float64("max-load", 0, "maximum total weight in kg (0 = unlimited)")
	planCmd.Flags().Bool("json", false, "print the result as JSON")
	planCmd.Flags().Bool("placed-only", false, "count only placed crates toward capacity")

	_ = viper.BindPFlag("truck.length", planCmd.Flags().Lookup("truck-length"))
	_ = viper.BindPFlag("truck.width", planCmd.Flags().Lookup("truck-width"))
	_ = viper.BindPFlag("truck.height", planCmd.Flags().Lookup("truck-height"))
	_ = viper.BindPFlag("truck.unit", planCmd.Flags().Lookup("unit"))
	_ = viper.BindPFlag("truck.max_load", planCmd.Flags().Lookup("max-load"))

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	truck, err := truckFromConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open crates file: %w", err)
	}
	defer f.Close()

	parsed, err := importer.ParseCrates(f)
	if err != nil {
		return err
	}

	for _, s := range parsed.Skipped {
		fmt.Fprintf(os.Stderr, "skipped line %d: %s\n", s.Line, s.Reason)
	}

	// The CLI stands in for the editor here, so it owns id assignment.
	// Labels double as stack targets on file input.
	crates := parsed.Crates
	for i := range crates {
		crates[i].ID = fmt.Sprintf("crate-%d", i+1)
	}
	byLabel := make(map[string]string, len(crates))
	for _, c := range crates {
		byLabel[c.Label] = c.ID
	}
	for i, c := range crates {
		if c.StackTargetID != "" {
			if id, ok := byLabel[c.StackTargetID]; ok {
				crates[i].StackTargetID = id
			}
		}
	}

	placedOnly, _ := cmd.Flags().GetBool("placed-only")
	result := services.PlanLayoutWithOptions(truck, crates, services.LayoutOptions{
		PlacedWeightOnly: placedOnly,
	})

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewLayoutResponse(result, false))
	}

	printLayout(cmd, truck, result)
	return nil
}

func truckFromConfig() (domain.Truck, error) {
	unit, err := domain.ParseUnit(viper.GetString("truck.unit"))
	if err != nil {
		return domain.Truck{}, err
	}

	truck := domain.Truck{
		Length: viper.GetFloat64("truck.length"),
		Width:  viper.GetFloat64("truck.width"),
		Height: viper.GetFloat64("truck.height"),
		Unit:   unit,
	}

	if truck.Length <= 0 || truck.Width <= 0 || truck.Height <= 0 {
		return domain.Truck{}, fmt.Errorf("truck dimensions must be positive (got %gx%gx%g)",
			truck.Length, truck.Width, truck.Height)
	}

	if maxLoad := viper.GetFloat64("truck.max_load"); maxLoad > 0 {
		truck.MaxLoad = &maxLoad
	}

	return truck, nil
}

func printLayout(cmd *cobra.Command, truck domain.Truck, result domain.LayoutResult) {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CRATE\tX\tY\tZ\tL\tW\tH")
	for _, p := range result.Placed {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			p.Label,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Size.L, p.Size.W, p.Size.H,
		)
	}
	w.Flush()

	if len(result.OverflowIDs) > 0 {
		fmt.Fprintf(out, "\noverflow: %v\n", result.OverflowIDs)
	}

	for _, o := range result.Overlaps {
		fmt.Fprintf(out, "overlap: %s <-> %s\n", o.A, o.B)
	}

	fmt.Fprintf(out, "\ntotal weight: %.1f kg", result.TotalWeight)
	if truck.MaxLoad != nil {
		fmt.Fprintf(out, " / %.1f kg", *truck.MaxLoad)
		if result.CapacityExceeded {
			fmt.Fprint(out, " (CAPACITY EXCEEDED)")
		}
	}
	fmt.Fprintln(out)
}
