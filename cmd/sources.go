package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"propertytax/internal/config"
	"propertytax/internal/database"
	"propertytax/internal/rates"
	"propertytax/internal/store"
)

// loadSources builds the property and rate snapshots for one run. Rates come
// from the first of: rate file, rate shapefile, the driver's own rates (sample
// or database). An overlay file, when configured, is layered on top.
func loadSources(ctx context.Context, cfg config.Config, log *zap.Logger) (*store.MapStore, *rates.Table, error) {
	start := time.Now()

	var (
		props *store.MapStore
		table *rates.Table
		err   error
	)
	switch {
	case cfg.Source.Driver == config.SourceSample:
		props, table = store.Sample(), rates.Sample()
	case cfg.Source.Driver == config.SourceFile:
		if props, err = store.LoadFile(cfg.Source.PropertyFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load properties: %w", err)
		}
	case cfg.UsesDatabase():
		if props, table, err = loadDatabase(ctx, cfg.DBConfig(), log); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown source driver %q", config.ErrInvalidConfig, cfg.Source.Driver)
	}

	switch {
	case cfg.Source.RateFile != "":
		if table, err = rates.LoadFile(cfg.Source.RateFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load rates: %w", err)
		}
	case cfg.Source.RateShapefile != "":
		if table, err = rates.LoadShapefile(cfg.Source.RateShapefile); err != nil {
			return nil, nil, fmt.Errorf("failed to load rate shapefile: %w", err)
		}
	}
	if table == nil {
		log.Warn("no rate table configured; estimates will use each property record's own rate")
		table, _ = rates.NewTable(nil)
	}

	if cfg.Source.OverlayFile != "" {
		overlay, err := rates.LoadOverlayFile(cfg.Source.OverlayFile)
		if err != nil {
			return nil, nil, err
		}
		table = table.WithOverlay(overlay.Year, overlay.Rates)
		log.Info("rate overlay applied",
			zap.String("file", cfg.Source.OverlayFile),
			zap.Int("year", overlay.Year),
			zap.Int("rates", len(overlay.Rates)))
	}

	log.Info("datasets loaded",
		zap.String("source", cfg.Source.Driver),
		zap.Int("properties", props.Len()),
		zap.Int("rates", table.Len()),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
	return props, table, nil
}

// loadDatabase snapshots PROPERTY_DATA and TAX_RATES.
func loadDatabase(ctx context.Context, dbc database.DBConfig, log *zap.Logger) (*store.MapStore, *rates.Table, error) {
	db, err := database.NewDatabase(ctx, dbc, log)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	records, err := db.LoadProperties(ctx)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.NewMapStore(records)
	if err != nil {
		return nil, nil, err
	}

	entries, err := db.LoadRates(ctx)
	if err != nil {
		return nil, nil, err
	}
	table, err := rates.NewTable(entries)
	if err != nil {
		return nil, nil, err
	}
	return props, table, nil
}
