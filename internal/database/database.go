package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"propertytax/internal/types"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sijms/go-ora/v2"
	_ "modernc.org/sqlite"
)

// ErrUnsupportedDriver is returned for a driver name other than oracle,
// postgres or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Supported drivers.
const (
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig holds database connection configuration
type DBConfig struct {
	Driver         string
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
	SSLMode        string
	// Path is the database file for sqlite; ":memory:" opens a private
	// in-memory database.
	Path string
}

// dsn builds the sql.Open driver name and a properly encoded connection string.
func dsn(cfg DBConfig) (string, string, error) {
	switch cfg.Driver {
	case DriverOracle:
		if cfg.WalletLocation != "" {
			// Use wallet-based mTLS connection
			return "oracle", fmt.Sprintf(
				"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
				url.PathEscape(cfg.Username), url.PathEscape(cfg.Password),
				cfg.Host, cfg.Port, cfg.Service, url.PathEscape(cfg.WalletLocation)), nil
		}
		return "oracle", (&url.URL{
			Scheme:   "oracle",
			User:     url.UserPassword(cfg.Username, cfg.Password), // escapes automatically
			Host:     cfg.Host + ":" + cfg.Port,
			Path:     "/" + cfg.Service, // keep full service name
			RawQuery: "ssl=true",        // ADB requires TCPS on 1522
		}).String(), nil
	case DriverPostgres:
		q := url.Values{}
		if cfg.SSLMode != "" {
			q.Set("sslmode", cfg.SSLMode)
		}
		return "pgx", (&url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.Username, cfg.Password),
			Host:     cfg.Host + ":" + cfg.Port,
			Path:     "/" + cfg.Service,
			RawQuery: q.Encode(),
		}).String(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return "", "", fmt.Errorf("sqlite requires a database path")
		}
		return "sqlite", cfg.Path, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
}

// rebind rewrites ? placeholders into the driver's positional form.
func rebind(driver, query string) string {
	var prefix string
	switch driver {
	case DriverOracle:
		prefix = ":"
	case DriverPostgres:
		prefix = "$"
	default:
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(prefix)
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Database holds the database connection and configuration
type Database struct {
	db     *sql.DB
	config DBConfig
	log    *zap.Logger
}

// NewDatabase opens and pings a database connection.
func NewDatabase(ctx context.Context, config DBConfig, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driverName, connStr, err := dsn(config)
	if err != nil {
		return nil, err
	}

	log.Info("connecting to database", zap.String("driver", config.Driver), zap.String("host", config.Host))

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if config.Driver == DriverSQLite {
		// a second connection to :memory: would see an empty database
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
		log:    log,
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

const propertyColumns = `PIN, Address, Township, Neighborhood_Code, Mailed_Tot, Certified_Tot, Board_Tot,
	Equalization_Factor, Tax_Rate_Year, Tax_Rate_Value`

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner) (types.PropertyRecord, error) {
	var (
		prop                     types.PropertyRecord
		address, township        sql.NullString
		mailed, certified, board sql.NullFloat64
	)
	err := s.Scan(
		&prop.PIN, &address, &township, &prop.NeighborhoodCode, &mailed, &certified, &board,
		&prop.EqualizationFactor, &prop.TaxRateYear, &prop.TaxRateValue,
	)
	if err != nil {
		return prop, err
	}
	prop.Address = address.String
	prop.Township = township.String
	prop.Mailed = amount(mailed)
	prop.Certified = amount(certified)
	prop.Board = amount(board)
	return prop, nil
}

func amount(v sql.NullFloat64) types.Amount {
	if !v.Valid {
		return types.None()
	}
	return types.Some(v.Float64)
}

func nullable(a types.Amount) sql.NullFloat64 {
	v, ok := a.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// QueryPropertyByPIN returns the record for pin, or nil when there is none.
func (d *Database) QueryPropertyByPIN(ctx context.Context, pin string) (*types.PropertyRecord, error) {
	query := rebind(d.config.Driver, `SELECT `+propertyColumns+` FROM PROPERTY_DATA WHERE PIN = ?`)

	prop, err := scanProperty(d.db.QueryRowContext(ctx, query, pin))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Property not found
		}
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	return &prop, nil
}

// LoadProperties returns every property record, ordered by PIN.
func (d *Database) LoadProperties(ctx context.Context) ([]types.PropertyRecord, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM PROPERTY_DATA ORDER BY PIN`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []types.PropertyRecord
	for rows.Next() {
		prop, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}
	d.log.Debug("loaded properties", zap.Int("count", len(properties)))
	return properties, nil
}

// LoadRates returns every tax rate entry, ordered by neighborhood and year.
func (d *Database) LoadRates(ctx context.Context) ([]types.RateEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT Neighborhood_Code, Tax_Year, Tax_Rate FROM TAX_RATES ORDER BY Neighborhood_Code, Tax_Year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax rates: %w", err)
	}
	defer rows.Close()

	var entries []types.RateEntry
	for rows.Next() {
		var e types.RateEntry
		if err := rows.Scan(&e.NeighborhoodCode, &e.Year, &e.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tax rates: %w", err)
	}
	d.log.Debug("loaded tax rates", zap.Int("count", len(entries)))
	return entries, nil
}
