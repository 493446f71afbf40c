package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/gauge"
)

// convertOptions are shared by convert and watch.
type convertOptions struct {
	vacuum bool
	from   string
	to     string
}

func (o *convertOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.vacuum, "vacuum", false, "use the vacuum converter")
	cmd.Flags().StringVar(&o.from, "from", "", "source unit (default pa, or atm with --vacuum)")
	cmd.Flags().StringVar(&o.to, "to", "", "target unit (default bar, or torr with --vacuum)")
}

// converter builds a converter seeded with text in the selected units.
func (a *app) converter(o convertOptions, text string) *gauge.Converter {
	var conv *gauge.Converter
	from, to := "pa", "bar"
	if o.vacuum {
		conv = gauge.NewVacuumConverter(a.client.Vacuum())
		from, to = "atm", "torr"
	} else {
		conv = gauge.NewPressureConverter(a.client.Pressure())
	}
	if o.from != "" {
		from = o.from
	}
	if o.to != "" {
		to = o.to
	}

	conv.Defaults(text, gauge.UnitID(from), gauge.UnitID(to)).
		Timeout(a.cfg.API.Timeout)
	if d := a.cfg.Debounce.Value; d > 0 {
		conv.ValueDebounce(d)
	}
	if d := a.cfg.Debounce.Unit; d > 0 {
		conv.UnitDebounce(d)
	}
	return conv
}

// convert <value>: one-shot conversion.
func convertCmd(a *app) *cobra.Command {
	var (
		opts convertOptions
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert a value and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gauge.IsComplete(args[0]) {
				return fmt.Errorf("%q is not a number", args[0])
			}
			conv := a.converter(opts, args[0])
			if err := conv.Start(cmd.Context()); err != nil {
				return err
			}
			defer conv.Close()

			v := conv.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s = %s %s\n",
				v.Primary.Text, conv.Catalog().Label(v.Primary.Unit),
				v.Secondary.Text, conv.Catalog().Label(v.Secondary.Unit))
			if all {
				return printResults(out, v.Results)
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "print every unit equivalent")
	return cmd
}

func printResults(out io.Writer, results []gauge.Conversion) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t\n", r.Display, r.Unit.Label)
	}
	return w.Flush()
}
