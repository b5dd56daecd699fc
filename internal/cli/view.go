package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/engine"
	"github.com/rshade/areasearch/internal/logging"
	"github.com/rshade/areasearch/internal/tui"
)

// ErrNotTerminal is returned when view runs without a terminal.
var ErrNotTerminal = errors.New("view needs an interactive terminal, use scan instead")

const (
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

type viewOptions struct {
	world       string
	metricsAddr string
	closed      bool
}

func newViewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive area search panel",
		Long: `Opens a terminal viewer over a simulated region with the area search panel.

Keys: ctrl+f toggles the panel, ctrl+t teleports to the next region, ctrl+c
quits. In the panel, tab moves between the filters, ctrl+r refreshes, ctrl+s
changes the sort column, enter tracks the selected object, ctrl+x stops the
search and esc hides the panel.

Logs go to the configured log file, or ~/.areasearch/logs/areasearch.log.`,
		Example: `  areasearch view --world world.yaml
  areasearch view --world world.yaml --metrics-addr localhost:9090`,
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			return runView(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.world, "world", "", "world file describing the simulated regions")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&opts.closed, "closed", false, "start with the search panel closed")
	_ = cmd.MarkFlagRequired("world")

	return cmd
}

func runView(cmd *cobra.Command, opts viewOptions) error {
	cfg := config.GetGlobalConfig()
	log := *logging.FromContext(cmd.Context())

	sim, err := loadSimulator(opts.world, cfg, log)
	if err != nil {
		return err
	}
	defer sim.Close()

	reg := newMetricsRegistry()
	metrics := engine.NewMetrics(reg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shell, err := tui.NewShell(ctx, tui.Host{
		Deps:     hostDeps(sim),
		Events:   sim.Events(),
		Teleport: sim.TeleportNext,
	}, tui.Options{
		Session:     sessionOptions(cfg, metrics, log),
		AutoRefresh: cfg.Search.AutoRefreshInterval.Std(),
		Open:        !opts.closed,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Stopping the program stops the metrics server too.
		defer cancel()
		p := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(gctx))
		if _, runErr := p.Run(); runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
			return fmt.Errorf("failed to run interactive TUI: %w", runErr)
		}
		return nil
	})

	if opts.metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, opts.metricsAddr, reg)
		})
	}

	return g.Wait()
}

// newMetricsRegistry returns a registry with the session collectors'
// companions: Go runtime and process metrics.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics serves reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsHandler(reg),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stopping metrics server: %w", err)
	}
	return nil
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
