package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"smarthome-mall/internal/database"
	"smarthome-mall/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the service schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalogue is the product data inserted by SeedProducts.
func Catalogue() []model.Product {
	return []model.Product{
		{ID: "P001", Name: "Smart Thermostat", Category: "Climate", Variants: []model.Variant{
			{Selector: "white", Price: decimal.RequireFromString("129.90"), Stock: 3},
			{Selector: "black", Price: decimal.RequireFromString("134.90"), Stock: 1},
		}},
		{ID: "P002", Name: "Door Sensor", Category: "Security", Variants: []model.Variant{
			{Selector: "single", Price: decimal.RequireFromString("19.90"), Stock: 20},
			{Selector: "pack-3", Price: decimal.RequireFromString("49.90"), Stock: 5},
		}},
		{ID: "P003", Name: "Smart Plug", Category: "Energy", AllowBackorder: true, Variants: []model.Variant{
			{Selector: "eu", Price: decimal.RequireFromString("14.50"), Stock: 0},
		}},
		{ID: "P004", Name: "Hub", Category: "Core", Variants: []model.Variant{
			{Selector: "v2", Price: decimal.RequireFromString("89.00"), Stock: 2},
		}},
		{ID: "P005", Name: "Motion Sensor", Category: "Security", Variants: []model.Variant{
			{Selector: "indoor", Price: decimal.RequireFromString("24.90"), Stock: 8},
		}},
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	for _, p := range Catalogue() {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, category, allow_backorder) VALUES ($1, $2, $3, $4)",
			p.ID, p.Name, p.Category, p.AllowBackorder,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}

		for _, v := range p.Variants {
			_, err := pool.Exec(ctx,
				"INSERT INTO product_variants (product_id, selector, price, stock) VALUES ($1, $2, $3, $4)",
				p.ID, v.Selector, v.Price, v.Stock,
			)
			if err != nil {
				t.Fatalf("failed to seed variant %s/%s: %v", p.ID, v.Selector, err)
			}
		}
	}
}

// SeedDiscount inserts one discount code.
func SeedDiscount(t *testing.T, pool *pgxpool.Pool, d model.DiscountCode) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO discount_codes (code, kind, value, uses_left, expiration_date, can_cumulate)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.Code, string(d.Kind), d.Value, d.UsesLeft, d.ExpirationDate, d.CanCumulate,
	)
	if err != nil {
		t.Fatalf("failed to seed discount %s: %v", d.Code, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "discount_codes", "product_variants", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
