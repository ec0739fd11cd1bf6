package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dujoseaugusto/land-data-scraper/internal/app"
	"github.com/dujoseaugusto/land-data-scraper/internal/config"
	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	var (
		source = flag.String("source", "", "Listing source: A|B|C or magicbricks|99acres|housing")
		region = flag.String("region", "", "State or union territory to scrape, e.g. Delhi")
	)
	flag.Parse()

	// stdout carries only the summary
	logger.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	appLogger := logger.NewLogger("scraper_main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to start application", err)
	}
	defer application.Close()

	result, err := application.Ingestion.Ingest(ctx, *source, *region)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrape failed: %v\n", err)
		flag.Usage()
		application.Close()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		appLogger.Error("Failed to write summary", err)
	}
}
