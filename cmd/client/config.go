package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
)

type config struct {
	ServerURL   string `env:"CIVICDESK_SERVER" envDefault:"http://localhost:8080"`
	DBPath      string `env:"CIVICDESK_DB" envDefault:"civicdesk-client.db"`
	Command     string `env:"-"`
	ShowVersion bool   `env:"-"`
}

// loadConfig reads the environment, then flags; the first positional argument is the command
func loadConfig(args []string, environ map[string]string) (*config, error) {
	cfg := &config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("civicdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to local session database")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Command = fs.Arg(0)
	default:
		return nil, fmt.Errorf("parse flags: unexpected arguments %v", fs.Args()[1:])
	}

	return cfg, nil
}
