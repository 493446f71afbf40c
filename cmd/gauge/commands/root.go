package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/gauge"
	"github.com/zoobzio/gauge/internal/config"
	"github.com/zoobzio/gauge/pkg/httpapi"
)

// app is the state shared by subcommands once the root pre-run completes.
type app struct {
	cfgPath string
	verbose bool

	cfg    config.Config
	client *httpapi.Client
	logger *slog.Logger
	stderr io.Writer
}

// Execute runs the CLI with os.Args.
func Execute() error {
	err := newRootCmd(os.Stderr).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
	}
	return err
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:           "gauge",
		Short:         "Pressure and vacuum conversion tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.config/gauge/config.yaml)")
	root.PersistentFlags().String("base-url", "", "tools API base URL")
	root.PersistentFlags().String("token", "", "bearer token for the tools API")
	root.PersistentFlags().Duration("timeout", 0, "per-request timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log library events as JSON")

	root.AddCommand(
		unitsCmd(a),
		convertCmd(a),
		watchCmd(a),
		boilingCmd(a),
		barometricCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := config.Load(a.cfgPath, func(v *viper.Viper) error {
		for key, name := range map[string]string{
			"api.base_url": "base-url",
			"api.token":    "token",
			"api.timeout":  "timeout",
		} {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = newLogger(a.stderr, a.verbose)
	hookSignals(a.logger)

	a.client = httpapi.New(cfg.API.BaseURL,
		httpapi.WithToken(cfg.API.Token),
		httpapi.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
	)
	return nil
}

// backoff returns the retry policy for important submissions.
func (a *app) backoff() gauge.RetryPolicy {
	p := gauge.DefaultRetryPolicy()
	p.Attempts = a.cfg.Retry.Attempts
	if a.cfg.Retry.BaseDelay > 0 {
		p.BaseDelay = a.cfg.Retry.BaseDelay
	}
	p.Retryable = gauge.Transient
	return p
}

// describe renders err for the terminal, preferring the user-facing message.
func describe(err error) string {
	msg := gauge.Message(err)
	if msg == "" || msg == "Unexpected error occurred." {
		return err.Error()
	}
	return msg
}
