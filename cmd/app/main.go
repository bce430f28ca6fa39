package main

import (
	"context"
	"flag"
	"log"
	"os"

	"FXCast/internal/di"
	"FXCast/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	mode := flag.String("mode", "serve", "operating mode: backfill | train | predict | serve")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s symbol=%s mode=%s", cfg.Environment, cfg.Symbol, *mode)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	ctx := context.Background()
	switch *mode {
	case "backfill":
		err = app.RunBackfill(ctx)
	case "train":
		err = app.RunTrain(ctx)
	case "predict":
		err = app.RunPredict(ctx)
	case "serve":
		err = app.RunServe()
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
