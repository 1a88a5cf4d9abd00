package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/dgallion1/layoutcheck/internal/config"
	"github.com/dgallion1/layoutcheck/internal/extract"
	"github.com/dgallion1/layoutcheck/internal/report"
)

const usage = "usage: layoutcheck [document.pdf]"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	path := cfg.DefaultInputPath
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	checker := check.FromConfig(cfg, extract.NewStats(cfg.StatsWindow), log)
	out, err := checker.Run(path)
	if err != nil {
		log.Error("layout check failed", "path", path, "error", err)
		return 1
	}

	fmt.Print(report.Text(out))
	return 0
}
