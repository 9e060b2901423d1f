package database

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propertytax/internal/types"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewDatabase(context.Background(), DBConfig{Driver: DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.EnsureSchema(context.Background()))
	return d
}

var testRecords = []types.PropertyRecord{
	{
		PIN: "12345678901234", Address: "123 Main St", Township: "Lake View", NeighborhoodCode: "12345",
		Mailed: types.Some(100000), Certified: types.Some(110000), Board: types.Some(120000),
		EqualizationFactor: 3.0, TaxRateYear: 2024, TaxRateValue: 7.25,
	},
	{
		PIN: "22334455667788", Address: "987 Willow Way", Township: "Berwyn", NeighborhoodCode: "22876",
		Mailed: types.None(), Certified: types.None(), Board: types.None(),
		EqualizationFactor: 3.0, TaxRateYear: 2024, TaxRateValue: 8.75,
	},
}

func TestPropertiesRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	require.NoError(t, d.InsertProperties(ctx, testRecords))

	got, err := d.LoadProperties(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(testRecords, got); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}

	prop, err := d.QueryPropertyByPIN(ctx, "22334455667788")
	require.NoError(t, err)
	require.NotNil(t, prop)
	assert.False(t, prop.Mailed.Present())
	assert.Equal(t, "Berwyn", prop.Township)

	prop, err = d.QueryPropertyByPIN(ctx, "00000000000000")
	require.NoError(t, err)
	assert.Nil(t, prop)
}

func TestInsertPropertiesDuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	err := d.InsertProperties(ctx, []types.PropertyRecord{testRecords[0], testRecords[0]})
	require.Error(t, err)

	got, err := d.LoadProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	entries := []types.RateEntry{
		{NeighborhoodCode: "98765", Year: 2024, Rate: 8.10},
		{NeighborhoodCode: "12345", Year: 2024, Rate: 7.25},
		{NeighborhoodCode: "12345", Year: 2023, Rate: 7.10},
	}
	require.NoError(t, d.InsertRates(ctx, entries))

	got, err := d.LoadRates(ctx)
	require.NoError(t, err)
	want := []types.RateEntry{entries[2], entries[1], entries[0]}
	assert.Equal(t, want, got)
}

func TestDSN(t *testing.T) {
	driver, conn, err := dsn(DBConfig{Driver: DriverOracle, Host: "db", Port: "1522", Service: "svc_high", Username: "u", Password: "p@ss"})
	require.NoError(t, err)
	assert.Equal(t, "oracle", driver)
	assert.Equal(t, "oracle://u:p%40ss@db:1522/svc_high?ssl=true", conn)

	driver, conn, err = dsn(DBConfig{Driver: DriverPostgres, Host: "pg", Port: "5432", Service: "tax", Username: "u", Password: "p", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://u:p@pg:5432/tax?sslmode=disable", conn)

	_, _, err = dsn(DBConfig{Driver: DriverSQLite})
	assert.Error(t, err)

	_, _, err = dsn(DBConfig{Driver: "mysql"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ?"
	assert.Equal(t, "SELECT a FROM t WHERE x = :1 AND y = :2", rebind(DriverOracle, q))
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", rebind(DriverPostgres, q))
	assert.Equal(t, q, rebind(DriverSQLite, q))
}

func TestEnsureSchemaByDriver(t *testing.T) {
	ctx := context.Background()

	// Oracle is never touched, so no connection is needed.
	oracle := &Database{config: DBConfig{Driver: DriverOracle}, log: zap.NewNop()}
	assert.NoError(t, oracle.EnsureSchema(ctx))

	unknown := &Database{config: DBConfig{Driver: "mysql"}, log: zap.NewNop()}
	assert.ErrorIs(t, unknown.EnsureSchema(ctx), ErrUnsupportedDriver)

	// Creating the sqlite schema twice is harmless.
	d := openTestDB(t)
	require.NoError(t, d.EnsureSchema(ctx))
	require.NoError(t, d.InsertRates(ctx, []types.RateEntry{{NeighborhoodCode: "12345", Year: 2024, Rate: 7.25}}))
}
