// Package main provides the defuse binary: an interactive bomb-defusal
// trainer on the terminal, or a headless runner for Lua drills.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/config"
	"github.com/cory-johannsen/defuse/internal/console"
	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/command"
	"github.com/cory-johannsen/defuse/internal/game/module"
	"github.com/cory-johannsen/defuse/internal/game/random"
	"github.com/cory-johannsen/defuse/internal/lifecycle"
	"github.com/cory-johannsen/defuse/internal/observability"
	"github.com/cory-johannsen/defuse/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	layoutPath := flag.String("layout", "", "layout YAML file; overrides layout.path")
	drillPath := flag.String("drill", "", "run this Lua drill headlessly instead of the console")
	seed := flag.Int64("seed", 0, "generation seed; overrides game.seed when non-zero")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *layoutPath != "" {
		cfg.Layout.Path = *layoutPath
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting defuse",
		zap.String("layout", cfg.Layout.Path),
		zap.String("drill", *drillPath),
		zap.Int64("seed", cfg.Game.Seed),
	)

	if err := run(context.Background(), cfg, *drillPath, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("defuse exited with error", zap.Error(err), zap.Duration("uptime", time.Since(start)))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("defuse exited", zap.Duration("uptime", time.Since(start)))
}

// run arms a bomb from cfg and plays it, either through an interactive
// console on in/out or by running the drill at drillPath.
func run(ctx context.Context, cfg config.Config, drillPath string, in io.Reader, out io.Writer, logger *zap.Logger) error {
	layout, err := loadLayout(cfg.Layout)
	if err != nil {
		return err
	}

	var feed *bomb.Feed
	listener := observability.Journal(logger)
	if drillPath == "" {
		feed = bomb.NewFeed("console", cfg.Console.FeedBuffer, logger)
		defer feed.Close()
		listener = bomb.Fanout(feed, listener)
	}

	reg, err := bomb.New(layout, bomb.Options{
		MaxFails: cfg.Game.MaxFails,
		Timings: bomb.Timings{
			Cut:   cfg.Game.CutCooldown,
			Press: cfg.Game.PressCooldown,
			Swipe: cfg.Game.SwipeCooldown,
		},
		Knob: module.KnobSettings{
			InitialRotation: cfg.Knob.InitialRotation,
			StepDegrees:     cfg.Knob.StepDegrees,
			LockAngle:       cfg.Knob.LockAngle,
		},
		Source:   newSource(cfg.Game.Seed),
		Logger:   logger,
		Listener: listener,
	})
	if err != nil {
		return fmt.Errorf("arming bomb: %w", err)
	}

	lc := lifecycle.NewLifecycle(logger)
	if drillPath != "" {
		mgr := scripting.NewManager(reg, cfg.Scripting.InstructionLimit, logger)
		mgr.Out = out
		lc.Add("drill", &lifecycle.FuncService{StartFn: func(context.Context) error {
			res, err := mgr.RunFile(drillPath)
			fmt.Fprintln(out, drillSummary(res))
			return err
		}})
	} else {
		style := console.Styler{Enabled: cfg.Console.Color}
		sess := console.NewSession(reg, feed, command.DefaultRegistry(), style, cfg.Console.Prompt, logger)
		lc.Add("console", &lifecycle.FuncService{StartFn: func(ctx context.Context) error {
			err := sess.Run(ctx, in, out)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}})
	}
	return lc.Run(ctx)
}

func loadLayout(cfg config.LayoutConfig) (bomb.Layout, error) {
	if cfg.Path == "" {
		return bomb.DefaultLayout(), nil
	}
	layout, err := bomb.LoadLayoutFromFile(cfg.Path)
	if err != nil {
		return bomb.Layout{}, fmt.Errorf("loading layout: %w", err)
	}
	return layout, nil
}

// newSource returns a reproducible source for a non-zero seed and nil,
// which selects crypto randomness, otherwise.
func newSource(seed int64) random.Source {
	if seed == 0 {
		return nil
	}
	return random.NewSeededSource(seed)
}

func drillSummary(res scripting.Result) string {
	st := res.Status
	outcome := "unfinished"
	switch {
	case st.Won:
		outcome = "defused"
	case st.Over:
		outcome = "exploded"
	}
	return fmt.Sprintf("drill %s: %s (resolved %d/%d, strikes %d/%d)",
		res.Drill, outcome, st.Resolved, st.Total, st.Fails, st.MaxFails)
}
