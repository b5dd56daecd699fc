package cli

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/engine"
	"github.com/rshade/areasearch/internal/logging"
	"github.com/rshade/areasearch/internal/scene"
)

// ErrWorldRequired is returned when no world file is given.
var ErrWorldRequired = errors.New("--world is required")

// loadSimulator builds the simulated viewer host from a world file.
func loadSimulator(path string, cfg *config.Config, log zerolog.Logger) (*scene.Simulator, error) {
	if path == "" {
		return nil, ErrWorldRequired
	}
	world, err := scene.LoadWorld(path)
	if err != nil {
		return nil, err
	}
	sim := scene.NewSimulator(world,
		scene.WithLatency(cfg.Simulator.Latency.Std()),
		scene.WithLogger(logging.ComponentLogger(log, "simulator")),
	)
	log.Debug().
		Str("world", path).
		Int("objects", len(world.Objects)).
		Stringer("region", sim.Region()).
		Msg("world loaded")
	return sim, nil
}

// hostDeps exposes the simulator as every host collaborator.
func hostDeps(sim *scene.Simulator) engine.Deps {
	return engine.Deps{Registry: sim, Agent: sim, Transport: sim, Names: sim, Tracker: sim}
}

// sessionOptions maps the search configuration onto engine options.
func sessionOptions(cfg *config.Config, metrics *engine.Metrics, log zerolog.Logger) engine.Options {
	return engine.Options{
		MinRefreshInterval: cfg.Search.MinRefreshInterval.Std(),
		FilterMinLength:    cfg.Search.FilterMinLength,
		Metrics:            metrics,
		Logger:             log,
	}
}
