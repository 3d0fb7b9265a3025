package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/livejava/java/project"
)

func newWatchCmd(opts *options) *cobra.Command {
	var metrics string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the project parsed as its files change and report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("livejava")

			p, err := opts.scanProject()
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			report := func(paths []string) {
				for _, path := range paths {
					f := p.File(path)
					if f == nil {
						fmt.Fprintf(out, "%s: removed\n", path)
						continue
					}
					diags := f.Diagnostics()
					if len(diags) == 0 {
						fmt.Fprintf(out, "%s: ok\n", path)
					}
					for _, d := range diags {
						fmt.Fprintf(out, "%s:%d:%d: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Column+1, d.Message)
					}
				}
			}
			report(p.Files())

			w, err := project.NewWatcher(p, report)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Start(); err != nil {
				return err
			}

			if metrics == "" {
				metrics = p.Config().Metrics.Listen
			}
			if metrics != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				srv := &http.Server{Addr: metrics, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Errorf("metrics: %s", err)
					}
				}()
				defer srv.Close()
				log.Infof("serving metrics on %s", metrics)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Infof("watching %d files", len(p.Files()))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&metrics, "metrics", "", "serve Prometheus metrics on this address")

	return cmd
}
