// Package config loads the server's runtime configuration from its
// process environment.
//
// morlock's binaries take their settings from command-line flags (see
// cmd/morlock/main.go's flag.Int/flag.String pattern); a long-running
// network server is conventionally configured from its environment
// instead, so this package keeps that explicit-default, documented-option
// shape but reads os.Getenv rather than flag.Parse.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultPort = 3000

// Config holds the settings cmd/portalserver needs to start listening.
type Config struct {
	// Port is the TCP port the HTTP+WebSocket server listens on.
	Port int
}

// Load reads Config from the process environment, applying defaults for
// anything unset.
//
// GAMES_TO_RUN, AI_DEPTH, OPENINGS_LOG, RANDOM_MOVE_PROB, TOP_K,
// OPENING_PLY_LIMIT, and SOFTMAX_T configure the self-play simulation
// harness and its AI search, neither of which this server implements; they
// are documented here for parity with that tool's environment but are
// never read.
func Load() (Config, error) {
	cfg := Config{Port: defaultPort}

	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	return cfg, nil
}
