package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmcoe-ai1/conference-app/db"
	"github.com/pmcoe-ai1/conference-app/pkg/secretbox"
)

const (
	testJWTSecret        = "integration-test-secret-0123456789abcdef"
	testMaxLoginAttempts = 3
	// Deliveries stay pending so scenarios can read the generated password
	// back out of password_queue.
	testDeliveryDelay = time.Hour
	serverPort        = "18080"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	DataKey     string
	Cipher      secretbox.Cipher
	HTTPClient  *http.Client
	Server      *ServerInstance
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer.
// Modes:
//   - Binary mode: set CONFERENCE_BINARY to the path of the conferencectl binary
//   - Inline mode: set CONFERENCE_INLINE=1 to run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("CONFERENCE_INLINE") == "1"
	binaryPath := os.Getenv("CONFERENCE_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either CONFERENCE_BINARY or CONFERENCE_INLINE=1 is required.\n\nBinary mode:\n  go build -o conferencectl ./cmd/conferencectl\n  INTEGRATION_TEST=1 CONFERENCE_BINARY=$(pwd)/conferencectl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 CONFERENCE_INLINE=1 go test -v ./test/integration/...")
	}
	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("CONFERENCE_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("conference_test"),
		tcpostgres.WithUsername("conference"),
		tcpostgres.WithPassword("conference"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// GORM connection for test setup and assertions
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rawDB, err := gdb.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	dataKey, err := secretbox.GenerateKey()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	cipher, err := secretbox.NewFromBase64(dataKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	var instance *ServerInstance
	if inlineMode {
		instance, err = StartInlineServer(gdb, cipher, serverPort)
	} else {
		instance, err = StartBinaryServer(binaryPath, connStr, dataKey, serverPort)
	}
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	serverURL := "http://127.0.0.1:" + serverPort
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		instance.Stop()
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          gdb,
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		DataKey:     dataKey,
		Cipher:      cipher,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Server:      instance,
	}, nil
}

// waitForServer polls the health endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/api/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		tc.Server.Stop()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// Reset empties every application table between scenarios
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE admins, conferences, surveys, questions, attendees,
		responses, password_queue, password_resets RESTART IDENTITY CASCADE`).Error
}

// runMigrations applies the embedded migrations the same way the server does
func runMigrations(dbURL string) error {
	source, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// binaryCommand builds the conferencectl invocation used in binary mode
func binaryCommand(ctx context.Context, binaryPath, dbURL, dataKey, port string) (*exec.Cmd, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}

	// Migrations already ran above, and the worker would send the passwords
	// scenarios read back out of password_queue.
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "--no-worker", "-b", "127.0.0.1", "-p", port)
	cmd.Dir = root
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"DATA_KEY="+dataKey,
		"JWT_SECRET="+testJWTSecret,
		fmt.Sprintf("MAX_LOGIN_ATTEMPTS=%d", testMaxLoginAttempts),
		fmt.Sprintf("PASSWORD_DELIVERY_DELAY_SECONDS=%d", int(testDeliveryDelay.Seconds())),
		"EMAIL_PROVIDER=log",
		"REDIS_URL=",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}
