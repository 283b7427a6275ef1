// Command cmvectors runs a YAML file of test vectors through the MILENAGE,
// TUAK, CMAC and 128-EEA/EIA implementations and reports any mismatch.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/johnnyb/mobilecrypto/internal/config"
	"github.com/johnnyb/mobilecrypto/internal/logger"
)

func main() {
	configPath := flag.String("config", "testdata/vectors.yaml", "Path to the vector file")
	logLevel := flag.String("log-level", "", "Log level, overrides log_level from the file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load vectors")
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if err := logger.ParseLogLevel(level); err != nil {
		log.Warn().Err(err).Msg("Using default log level")
	}

	l := logger.InitLogger(map[string]string{"mod": "cmvectors"})
	l.Info("checking %d vectors from %s", cfg.Count(), *configPath)

	r := Run(cfg, l)
	l.Info("%d passed, %d failed", r.Passed, r.Failed)
	if r.Failed > 0 {
		os.Exit(1)
	}
}
