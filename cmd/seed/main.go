// Command seed backfills the historical price store with synthetic
// daily candles, so the service serves "real" stored data instead of
// generating charts on the fly.
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	marketsvc "main/internal/application/service/market"
	"main/internal/config"
	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
	"main/internal/infrastructure/history"

	"github.com/sirupsen/logrus"
)

func main() {
	days := flag.Int("days", marketsvc.DefaultSeriesDays, "number of trailing days to backfill")
	symbols := flag.String("symbols", "", "comma-separated symbols (default: whole catalog)")
	reset := flag.Bool("reset", false, "clear stored rows for the selected symbols first")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var repo interfaces.HistoryRepository
	switch {
	case cfg.Postgres.DSN != "":
		repo, err = history.NewPostgresRepository(ctx, cfg.Postgres.DSN)
	case cfg.SQLite.Path != "":
		repo, err = history.NewSQLiteRepository(cfg.SQLite.Path)
	default:
		logger.Fatal("no history store configured: set DATABASE_DSN or SQLITE_PATH")
	}
	if err != nil {
		logger.Fatalf("failed to init history store: %v", err)
	}
	defer repo.Close()

	catalog := market.DefaultCatalog()
	if cfg.Wallet.CatalogPath != "" {
		catalog, err = market.LoadCatalog(cfg.Wallet.CatalogPath)
		if err != nil {
			logger.Fatalf("failed to load catalog: %v", err)
		}
	}

	if *days < 2 {
		logger.Fatalf("days must be at least 2, got %d", *days)
	}

	assets := catalog.Assets()
	if *symbols != "" {
		assets = assets[:0:0]
		for _, raw := range strings.Split(*symbols, ",") {
			a, err := catalog.Get(strings.TrimSpace(raw))
			if err != nil {
				logger.Fatalf("unknown symbol %q", raw)
			}
			assets = append(assets, a)
		}
	}

	generator := marketsvc.NewService(catalog, nil)
	today := time.Now()

	for _, asset := range assets {
		if *reset {
			if err := repo.ClearSymbol(ctx, asset.Symbol); err != nil {
				logger.Fatalf("clear %s: %v", asset.Symbol, err)
			}
		}

		series := generator.GenerateSeries(asset, *days)
		for i, candle := range series.Candles {
			date := today.AddDate(0, 0, -(*days - 1 - i)).Format("2006-01-02")
			row := market.HistoricalPrice{
				Symbol: asset.Symbol,
				Date:   date,
				Open:   candle.Open,
				High:   candle.High,
				Low:    candle.Low,
				Close:  candle.Close,
			}
			if err := repo.Upsert(ctx, row); err != nil {
				logger.Fatalf("upsert %s %s: %v", asset.Symbol, date, err)
			}
		}

		logger.WithFields(logrus.Fields{
			"symbol": asset.Symbol,
			"days":   *days,
		}).Info("backfilled historical prices")
	}
}
