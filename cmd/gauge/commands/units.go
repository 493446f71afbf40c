package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/gauge"
)

// units [pressure|vacuum]: print a unit catalog grouped by category, or
// re-encode it as json/yaml.
func unitsCmd(_ *app) *cobra.Command {
	var file, output string
	cmd := &cobra.Command{
		Use:       "units [pressure|vacuum]",
		Short:     "List the units of a converter",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"pressure", "vacuum"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				catalog *gauge.Catalog
				err     error
			)
			switch {
			case file != "" && len(args) == 1:
				return fmt.Errorf("--catalog and %q are mutually exclusive", args[0])
			case file != "":
				catalog, err = readCatalog(file)
			case len(args) == 1:
				catalog, err = catalogFor(args[0])
			default:
				catalog, err = catalogFor("pressure")
			}
			if err != nil {
				return err
			}

			if output != "table" {
				codec, err := gauge.CodecFor(output)
				if err != nil {
					return err
				}
				data, err := gauge.EncodeCatalog(catalog, codec)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, cat := range catalog.Categories() {
				fmt.Fprintf(w, "%s\n", cat.Name)
				for _, id := range cat.Units {
					fmt.Fprintf(w, "  %s\t%s\n", id, catalog.Label(id))
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&file, "catalog", "", "read the catalog from a json or yaml file")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func readCatalog(path string) (*gauge.Catalog, error) {
	codec, err := gauge.CodecFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gauge.LoadCatalog(data, codec)
}

func catalogFor(kind string) (*gauge.Catalog, error) {
	switch kind {
	case "pressure":
		return gauge.PressureCatalog(), nil
	case "vacuum":
		return gauge.VacuumCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown converter %q (want pressure or vacuum)", kind)
	}
}
