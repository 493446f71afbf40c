package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/gauge"
)

// barometric: leg height at sea level or at a coordinate's elevation.
func barometricCmd(a *app) *cobra.Command {
	var (
		density  float64
		liquid   string
		lat, lon float64
		here     bool
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "barometric",
		Short: "Compute a barometric leg height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if list {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, d := range gauge.Densities {
					fmt.Fprintf(w, "%s\t%s kg/m³\n", d.Name, gauge.FormatField(d.Value))
				}
				return w.Flush()
			}

			if liquid != "" {
				found := false
				for _, d := range gauge.Densities {
					if strings.EqualFold(d.Name, liquid) {
						density, found = d.Value, true
						break
					}
				}
				if !found {
					return fmt.Errorf("unknown liquid %q", liquid)
				}
			}

			calc := gauge.NewBarometric(a.client).Timeout(a.cfg.API.Timeout)

			var (
				leg gauge.LegResult
				err error
			)
			if here {
				elev, lerr := a.client.Elevation(cmd.Context(), lat, lon)
				if lerr != nil {
					return fmt.Errorf("elevation lookup: %w", lerr)
				}
				fmt.Fprintf(out, "elevation: %s m\n", gauge.FormatDisplay(elev.ElevationM))
				leg, err = calc.AtElevation(cmd.Context(), elev, density)
			} else {
				leg, err = calc.SeaLevel(cmd.Context(), density)
			}
			if err != nil && !errors.Is(err, gauge.ErrLocalFallback) {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", gauge.Message(err))
			}

			pressure := gauge.FormatDisplay(leg.PressurePa) + " Pa"
			if leg.PressureEstimated {
				pressure += " (estimated)"
			}
			fmt.Fprintf(out, "pressure: %s\n", pressure)
			fmt.Fprintf(out, "density:  %s kg/m³\n", gauge.FormatField(leg.Density))
			fmt.Fprintf(out, "height:   %s m (%s ft)\n", gauge.FormatDisplay(leg.HeightMeters), gauge.FormatDisplay(leg.HeightFeet))
			if leg.Source == gauge.SourceLocalFallback {
				fmt.Fprintln(out, "source:   local calculation")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&density, "density", 1000, "liquid density in kg/m³")
	cmd.Flags().StringVar(&liquid, "liquid", "", "use the density of a known liquid")
	cmd.Flags().BoolVar(&here, "at", false, "use the elevation at --lat/--lon instead of sea level")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for --at")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude for --at")
	cmd.Flags().BoolVar(&list, "liquids", false, "list known liquids and exit")
	return cmd
}
