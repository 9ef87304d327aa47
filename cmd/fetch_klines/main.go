package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"klinetime/config"
	"klinetime/internal/adapters/binanceclient"
	"klinetime/internal/adapters/logger"
	"klinetime/internal/adapters/sqlite"
	"klinetime/internal/series"
	"klinetime/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 4. Initialize Kline Store
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize kline store: %v", err)
	}
	defer repo.Close()

	// 5. Build the aligned bucket range to fetch
	end := time.Now().UnixMilli()
	start := end - int64(cfg.FetchDays)*24*3_600_000
	r, err := series.New(start, end, cfg.Interval)
	if err != nil {
		log.Fatalf("FATAL: Failed to build fetch range: %v", err)
	}
	appLogger.Info(ctx, "Fetching klines", map[string]interface{}{
		"symbol":   cfg.Symbol,
		"interval": cfg.Interval.String(),
		"from":     r.Start.Time().Format(time.RFC3339),
		"to":       r.End.Time().Format(time.RFC3339),
		"buckets":  r.ExpectedCount(),
	})

	klines, err := client.GetKlinesRange(ctx, cfg.Symbol, r.Start, r.End)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching klines")
		log.Fatalf("Error fetching klines: %v", err)
	}
	appLogger.Info(ctx, "Fetched klines", map[string]interface{}{"count": len(klines)})

	// 6. Store and verify coverage
	if err := repo.Upsert(ctx, klines); err != nil {
		appLogger.Error(ctx, err, "Error storing klines")
		log.Fatalf("Error storing klines: %v", err)
	}

	stored, err := repo.Range(ctx, cfg.Symbol, r.Start, r.End)
	if err != nil {
		appLogger.Error(ctx, err, "Error reading back stored klines")
		log.Fatalf("Error reading back stored klines: %v", err)
	}
	if err := series.VerifyCoverage(r, stored); err != nil {
		// Gaps happen when the exchange had downtime inside the range.
		appLogger.Warn(ctx, "Stored series has gaps", map[string]interface{}{"detail": err.Error()})
	} else {
		appLogger.Info(ctx, "Stored series is continuous", map[string]interface{}{"buckets": r.ExpectedCount()})
	}

	// 7. Export, with bucket opens rendered in the configured timezone
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Error creating data directory: %v", err)
	}
	for _, k := range stored {
		bucket, err := k.Bucket.WithTimezone(cfg.Timezone)
		if err != nil {
			log.Fatalf("Error applying timezone: %v", err)
		}
		k.Bucket = bucket
	}
	filename := filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s_%s_to_%s.csv",
		cfg.Symbol, cfg.Interval,
		r.Start.Time().Format("20060102"), r.End.Time().Format("20060102")))
	if err := utils.WriteKlinesToCSV(stored, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved CSV export", map[string]interface{}{"filename": filename, "rows": len(stored)})
}
