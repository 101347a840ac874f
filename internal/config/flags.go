package config

import (
	"flag"
	"time"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScenario = flag.String("scenario", "", "Scenario file to simulate")
	flagTicks    = flag.Int("ticks", 0, "Number of frames to simulate")
	flagFixedDt  = flag.Duration("fixed-dt", 0, "Fixed physics timestep")
	flagRecord   = flag.String("record", "", "Record the first interactor's poses to this file")
	flagPlayback = flag.String("playback", "", "Drive the first interactor from this recording")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScenario != "" {
		cfg.Simulation.Scenario = *flagScenario
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagFixedDt > time.Duration(0) {
		cfg.Simulation.FixedTimestep = *flagFixedDt
	}
	if *flagRecord != "" {
		cfg.Simulation.RecordPath = *flagRecord
	}
	if *flagPlayback != "" {
		cfg.Simulation.PlaybackPath = *flagPlayback
	}
}
