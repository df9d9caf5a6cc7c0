package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smarthome-mall/internal/config"
	"smarthome-mall/internal/database"
	"smarthome-mall/internal/discount"
	"smarthome-mall/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s FILE.csv.gz [FILE.csv.gz ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		return fmt.Errorf("at least one discount file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "discount-import")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// S3 first when enabled, local file system as fallback
	fileLoader := discount.NewFileLoader(logger)
	var s3Loader discount.Loader
	if cfg.S3.Enabled {
		s3Loader, err = discount.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for discount files (S3 disabled)")
	}
	loader := discount.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)

	importer := discount.NewImporter(loader, repository.NewDiscountRepository(pool, logger), logger)

	n, err := importer.Import(ctx, files)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d discount codes from %d files\n", n, len(files))
	return nil
}
