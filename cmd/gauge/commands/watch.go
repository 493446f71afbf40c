package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zoobzio/gauge"
	"github.com/zoobzio/gauge/pkg/prommetrics"
)

// watch <file|->: feed readings from a file, or stdin for "-", into a
// converter and print each settled conversion.
func watchCmd(a *app) *cobra.Command {
	var (
		opts        convertOptions
		side        string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch <file|->",
		Short: "Convert readings from a file as it changes",
		Long: `Watch a file of readings. Each line is "<value>" or "<value> <unit>";
blank lines and lines starting with # are ignored.

With "-" readings are read from stdin, one edit per line, and the last
pending edit is converted at end of input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s gauge.Side
			switch side {
			case "primary":
				s = gauge.Primary
			case "secondary":
				s = gauge.Secondary
			default:
				return fmt.Errorf("unknown side %q (want primary or secondary)", side)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conv := a.converter(opts, "")
			conv.OnChange(printer(cmd, conv))

			if metricsAddr != "" {
				m, err := prommetrics.New(prometheus.DefaultRegisterer)
				if err != nil {
					return err
				}
				conv.Metrics(m.Converter(conv.Name()))
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.Handler(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("metrics server", "error", err)
					}
				}()
				defer srv.Close()
			}

			if err := conv.Start(ctx); err != nil {
				return err
			}
			defer conv.Close()

			var w gauge.Watcher = gauge.NewFileWatcher(args[0])
			stream := args[0] == "-"
			if stream {
				w = gauge.NewReaderWatcher(cmd.InOrStdin())
			}
			err := gauge.Feed(ctx, w, conv, s)
			if err == nil && stream && conv.State() == gauge.StateAwaitingDebounce {
				err = conv.Convert(ctx)
				if errors.Is(err, gauge.ErrNoValue) {
					err = nil
				}
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, gauge.ErrClosed) {
				return nil
			}
			return err
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&side, "side", "primary", "field the readings are typed into (primary or secondary)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// printer returns an OnChange callback printing settled and failed views.
// Repeated lines are suppressed.
func printer(cmd *cobra.Command, conv *gauge.Converter) func(gauge.View) {
	var (
		mu   sync.Mutex
		last string
	)
	out := cmd.OutOrStdout()
	label := conv.Catalog().Label

	return func(v gauge.View) {
		var line string
		switch v.State {
		case gauge.StateSettled:
			src, dst := v.Field(v.Source), v.Field(v.Source.Other())
			line = fmt.Sprintf("%s %s = %s %s", src.Text, label(src.Unit), dst.Text, label(dst.Unit))
		case gauge.StateError:
			line = "error: " + v.Message
		default:
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(out, line)
	}
}
