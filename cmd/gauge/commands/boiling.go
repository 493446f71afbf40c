package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/gauge"
)

// boiling: compute the missing boiling-point target.
func boilingCmd(a *app) *cobra.Command {
	var (
		p1, t1, hvap, p2, t2 string
		substance            string
		important, list      bool
	)
	cmd := &cobra.Command{
		Use:   "boiling",
		Short: "Compute P2 from T2, or T2 from P2",
		Long: `Compute a boiling point with the Clausius-Clapeyron relation.

Give P1, T1 and Hvap (or --substance), then exactly one of --p2 or --t2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if list {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, s := range gauge.Substances() {
					fmt.Fprintf(w, "%s\t%s\t%s kJ/mol\n", s.Name, s.Category, gauge.FormatField(s.Hvap))
				}
				return w.Flush()
			}

			calc := gauge.NewBoilingPoint(a.client).
				Timeout(a.cfg.API.Timeout).
				Backoff(a.backoff())

			if substance != "" {
				if err := calc.SelectSubstance(substance); err != nil {
					return err
				}
			}
			inputs := []struct {
				param gauge.Param
				text  string
				set   bool
			}{
				{gauge.ParamP1, p1, true},
				{gauge.ParamT1, t1, true},
				{gauge.ParamHvap, hvap, hvap != "" || substance == ""},
			}
			for _, in := range inputs {
				if !in.set {
					continue
				}
				if err := calc.SetInput(in.param, in.text); err != nil {
					return err
				}
			}
			if p2 != "" && t2 != "" {
				return fmt.Errorf("enter only one of --p2 or --t2")
			}
			if p2 != "" {
				if err := calc.SetTarget(gauge.TargetP2, p2); err != nil {
					return err
				}
			}
			if t2 != "" {
				if err := calc.SetTarget(gauge.TargetT2, t2); err != nil {
					return err
				}
			}

			var opts []gauge.SubmitOption
			if important {
				opts = append(opts, gauge.WithImportant())
			}
			res, err := calc.Submit(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			name := "T2"
			if res.Computed == gauge.TargetP2 {
				name = "P2"
			}
			fmt.Fprintf(out, "%s = %s\n", name, gauge.FormatField(res.Value))
			return nil
		},
	}
	cmd.Flags().StringVar(&p1, "p1", "", "known pressure P1")
	cmd.Flags().StringVar(&t1, "t1", "", "boiling temperature T1 at P1")
	cmd.Flags().StringVar(&hvap, "hvap", "", "enthalpy of vaporization in kJ/mol")
	cmd.Flags().StringVar(&substance, "substance", "", "fill Hvap from a known substance")
	cmd.Flags().StringVar(&p2, "p2", "", "target pressure; computes T2")
	cmd.Flags().StringVar(&t2, "t2", "", "target temperature; computes P2")
	cmd.Flags().BoolVar(&important, "important", false, "retry transient failures with backoff")
	cmd.Flags().BoolVar(&list, "substances", false, "list known substances and exit")
	return cmd
}
