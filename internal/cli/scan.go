package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/areasearch/internal/cli/pagination"
	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/engine"
	"github.com/rshade/areasearch/internal/logging"
)

const (
	defaultScanTimeout = 30 * time.Second
	defaultScanQuiet   = 500 * time.Millisecond
)

type scanOptions struct {
	world   string
	filters [len(engine.Fields)]string
	output  string
	timeout time.Duration
	quiet   time.Duration
	sort    string
	page    pagination.Params
}

func newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Search the current region once and print the results",
		Long: `Runs a search session without the interactive panel. The session refreshes
as object properties and names arrive and prints the rows once no request has
been answered for the quiet period.

Filters are case-sensitive substrings and only apply when longer than
search.filter_min_length characters.`,
		Example: `  areasearch scan --world world.yaml
  areasearch scan --world world.yaml --name Boxes --owner Jane --output json
  areasearch scan --world world.yaml --sort owner:desc --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.world, "world", "", "world file describing the simulated region")
	flags.StringVar(&opts.filters[engine.FieldName], "name", "", "object name filter")
	flags.StringVar(&opts.filters[engine.FieldDescription], "desc", "", "object description filter")
	flags.StringVar(&opts.filters[engine.FieldOwner], "owner", "", "owner name filter")
	flags.StringVar(&opts.filters[engine.FieldGroup], "group", "", "group name filter")
	flags.StringVarP(&opts.output, "output", "o", string(engine.OutputTable), "output format: table, json or ndjson")
	flags.DurationVar(&opts.timeout, "timeout", defaultScanTimeout, "give up after this long")
	flags.DurationVar(&opts.quiet, "quiet", defaultScanQuiet, "finish after no response for this long")
	flags.StringVar(&opts.sort, "sort", pagination.DefaultSortField,
		"sort rows by name, description, owner or group, optionally with :asc or :desc")
	flags.IntVar(&opts.page.Limit, "limit", 0, "print at most this many rows (0 prints all)")
	flags.IntVar(&opts.page.Offset, "offset", 0, "skip this many rows")
	_ = cmd.MarkFlagRequired("world")

	return cmd
}

func runScan(cmd *cobra.Command, opts scanOptions) error {
	format := engine.OutputFormat(opts.output)
	switch format {
	case engine.OutputTable, engine.OutputJSON, engine.OutputNDJSON:
	default:
		return fmt.Errorf("%w: %s", engine.ErrUnsupportedFormat, opts.output)
	}

	field, order, err := pagination.ParseSort(opts.sort)
	if err != nil {
		return err
	}
	opts.page.SortField, opts.page.SortOrder = field, order
	if err = opts.page.Validate(); err != nil {
		return err
	}

	cfg := config.GetGlobalConfig()
	log := *logging.FromContext(cmd.Context())

	sim, err := loadSimulator(opts.world, cfg, log)
	if err != nil {
		return err
	}
	defer sim.Close()

	session, err := engine.NewSession(hostDeps(sim), sessionOptions(cfg, nil, log))
	if err != nil {
		return err
	}

	for _, f := range engine.Fields {
		text := opts.filters[f]
		if text == "" {
			continue
		}
		if !session.SetFilter(f, text) {
			cmd.PrintErrf("Warning: %s filter %q is too short and is ignored (needs more than %d characters)\n",
				f, text, cfg.Search.FilterMinLength)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	res, err := session.Settle(ctx, sim.Events(), opts.quiet)
	if err != nil {
		return fmt.Errorf("scanning region %s: %w", sim.Region(), err)
	}

	logger.Info().Ctx(cmd.Context()).
		Int("listed", res.Status.Listed).
		Int("pending", res.Status.Pending).
		Int("total", res.Status.Total).
		Msg("scan complete")

	res.Rows = opts.page.Apply(res.Rows)
	return engine.RenderResult(cmd.OutOrStdout(), format, res)
}
