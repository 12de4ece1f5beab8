package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsg-federation/memberbook/internal/roster"
	"github.com/jsg-federation/memberbook/internal/validate"
)

func main() {
	var (
		input     = flag.String("input", "output/members.csv", "roster CSV to clean")
		output    = flag.String("output", "output/members_clean.csv", "cleaned roster CSV path")
		rulesPath = flag.String("rules", "", "validation rule-set JSON (defaults compiled in)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rules := validate.DefaultRules()
	if *rulesPath != "" {
		var err error
		rules, err = validate.LoadRules(*rulesPath)
		if err != nil {
			logger.Error("failed to load rules", "path", *rulesPath, "error", err)
			os.Exit(1)
		}
	}

	stats, err := roster.Clean(*input, *output, validate.New(rules), logger)
	if err != nil {
		logger.Error("cleaning failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Cleaned roster: %d valid members\n", stats.Kept)
	fmt.Printf("- Rows read: %d\n", stats.Read)
	fmt.Printf("- Rejected: %d\n", stats.Rejected)
	fmt.Printf("- Duplicates removed: %d\n", stats.Duplicates)
	fmt.Printf("- Saved to: %s\n", *output)
}
