package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
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

// SetupTestDB creates a PostgreSQL test container and connection pool.
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

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

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

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS services (
			id VARCHAR(50) PRIMARY KEY,
			category_id VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS patients (
			id VARCHAR(50) PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(30) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			date_of_birth TIMESTAMP,
			gender VARCHAR(20) NOT NULL DEFAULT '',
			skin_type INTEGER NOT NULL DEFAULT 0,
			allergies TEXT[] NOT NULL DEFAULT '{}',
			chronic_conditions TEXT[] NOT NULL DEFAULT '{}',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS offers (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type VARCHAR(30) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			valid_from TIMESTAMP,
			valid_until TIMESTAMP,
			usage_limit_per_patient INTEGER NOT NULL DEFAULT 0,
			total_usage_limit INTEGER NOT NULL DEFAULT 0,
			conditions JSONB NOT NULL DEFAULT '[]',
			benefits JSONB NOT NULL DEFAULT '[]',
			priority INTEGER NOT NULL DEFAULT 0,
			is_exclusive BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS offer_redemptions (
			id UUID PRIMARY KEY,
			offer_id VARCHAR(50) NOT NULL,
			patient_id VARCHAR(50) NOT NULL,
			discount_amount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			redeemed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS wallets (
			patient_id VARCHAR(50) PRIMARY KEY,
			cash_balance DECIMAL(10, 2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS service_credits (
			id UUID PRIMARY KEY,
			patient_id VARCHAR(50) NOT NULL,
			service_id VARCHAR(50) NOT NULL,
			service_name VARCHAR(255) NOT NULL DEFAULT '',
			remaining INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			unit_type VARCHAR(20) NOT NULL DEFAULT 'session',
			package_id VARCHAR(50) NOT NULL DEFAULT '',
			expires_at TIMESTAMP,
			UNIQUE (patient_id, service_id, package_id)
		);

		CREATE TABLE IF NOT EXISTS package_purchases (
			id UUID PRIMARY KEY,
			patient_id VARCHAR(50) NOT NULL,
			offer_id VARCHAR(50) NOT NULL,
			offer_name VARCHAR(255) NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			credits JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			paid_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_offer_redemptions_offer_id ON offer_redemptions(offer_id);
		CREATE INDEX IF NOT EXISTS idx_offer_redemptions_patient_id ON offer_redemptions(patient_id);
		CREATE INDEX IF NOT EXISTS idx_service_credits_patient_id ON service_credits(patient_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedServices inserts test service data into the database.
func SeedServices(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	services := []struct {
		id         string
		categoryID string
		name       string
		price      float64
	}{
		{"SVC-HYDRA", "CAT-FACIAL", "HydraFacial", 800.00},
		{"SVC-PEEL", "CAT-FACIAL", "Chemical Peel", 600.00},
		{"SVC-LASER", "CAT-LASER", "Laser Hair Removal", 400.00},
		{"SVC-BOTOX", "CAT-INJECT", "Botox Session", 1500.00},
	}

	for _, s := range services {
		_, err := pool.Exec(ctx,
			"INSERT INTO services (id, category_id, name, price, duration) VALUES ($1, $2, $3, $4, 30)",
			s.id, s.categoryID, s.name, s.price,
		)
		if err != nil {
			t.Fatalf("failed to seed service %s: %v", s.id, err)
		}
	}
}

// SeedPatient inserts a test patient into the database.
func SeedPatient(t *testing.T, pool *pgxpool.Pool, id string) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO patients (id, first_name, last_name, phone, skin_type, allergies)
		VALUES ($1, 'Nour', 'Hassan', '+201000000000', 3, '{retinol}')
	`, id)
	if err != nil {
		t.Fatalf("failed to seed patient %s: %v", id, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"offer_redemptions", "service_credits", "package_purchases",
		"wallets", "offers", "patients", "services",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
