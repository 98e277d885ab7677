package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocomplete-hw/config"
	"autocomplete-hw/internal/app"
	"autocomplete-hw/internal/lib/logger/sl"
	"autocomplete-hw/internal/services/cui"
	"autocomplete-hw/internal/utils"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	// Defined before config.MustLoad, which parses the command line.
	var interactive bool
	var query string
	flag.BoolVar(&interactive, "cui", false, "launch the interactive terminal demo")
	flag.StringVar(&query, "q", "", "one-shot search query")

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("autocomplete", "env", cfg.Env)

	ctx := context.Background()

	start := time.Now()
	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to build engine", "error", sl.Err(err))
		os.Exit(1)
	}
	log.Info("engine built", "elapsed", utils.FormatDuration(time.Since(start)))

	graphStats := utils.ComputeGraphStats(application.Engine.Root())
	log.Info("prefix graph built",
		"nodes", graphStats.Nodes,
		"terminals", graphStats.Terminals,
		"max_depth", graphStats.MaxDepth,
		"avg_depth", graphStats.AvgDepth,
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	switch {
	case interactive:
		demo := cui.New(log, application.Engine, cfg.CUI.MaxResults)
		go func() {
			<-stop
			demo.Close()
		}()
		if err := demo.Start(); err != nil {
			log.Error("cui exited with error", "error", sl.Err(err))
		}
	case query != "":
		results := application.Engine.Search(query, cfg.Engine.MaxCost, cfg.Engine.Size)
		fmt.Printf("Search found %d results for %q\n", len(results), query)
		for _, path := range results {
			fmt.Println(path)
		}
	default:
		log.Info("nothing to do: pass -q \"<query>\" or -cui")
	}

	if err := application.Stop(); err != nil {
		log.Error("failed to close engine resources", "error", sl.Err(err))
	}
	log.Info("gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
