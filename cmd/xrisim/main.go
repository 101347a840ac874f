// Package main is the entry point for the headless interaction simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/config"
	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/sim"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Simulation.Scenario == "" {
		fmt.Fprintln(os.Stderr, "Config error: no scenario (set simulation.scenario or pass -scenario)")
		os.Exit(2)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== XRI Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sc, err := sim.LoadScenario(cfg.Simulation.Scenario)
	if err != nil {
		logger.Error("failed to load scenario", zap.Error(err))
		os.Exit(1)
	}
	s, err := sim.Build(sc, cfg)
	if err != nil {
		logger.Error("failed to build scenario", zap.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := s.Run(ctx, cfg.Simulation.Ticks)
	if err != nil {
		logger.Error("simulation error", zap.Error(err))
	}
	printReport(rep)
}

func printReport(rep sim.Report) {
	logger.Info("simulation summary",
		zap.Uint64("frames", rep.Frames),
		zap.Duration("elapsed", rep.Elapsed),
		zap.Int("recorded", rep.Recorded))

	names := make([]string, 0, len(rep.Events))
	for name := range rep.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Info("events", zap.String("type", name), zap.Int("count", rep.Events[name]))
	}
	for _, b := range rep.Bodies {
		logger.Info("body",
			zap.String("name", b.Name),
			zap.Float32s("position", b.Position[:]),
			zap.Float32s("velocity", b.Velocity[:]),
			zap.Strings("selected_by", b.Selectors))
	}
}
