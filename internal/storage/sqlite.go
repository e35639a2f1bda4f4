package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lachiem1/monthlens/internal/auth"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Mode string

const (
	ModePlain  Mode = "plain"
	ModeSecure Mode = "secure"
)

type Config struct {
	Mode Mode
	Path string
}

// opener opens one connection pool to the configured database.
type opener func() (*sql.DB, error)

// Open opens the local settings database at path, creating it when needed.
// An empty path resolves to the user config directory. Builds with the
// sqlcipher tag encrypt the file with a key kept in the OS keyring.
func Open(ctx context.Context, path string) (*sql.DB, Config, error) {
	cfg, err := resolveConfig(path)
	if err != nil {
		return nil, Config{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, Config{}, fmt.Errorf("create db directory: %w", err)
	}

	open, err := openerFor(cfg)
	if err != nil {
		return nil, Config{}, err
	}

	db, err := open()
	if err != nil {
		return nil, Config{}, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Config{}, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(open); err != nil {
		db.Close()
		return nil, Config{}, err
	}

	return db, cfg, nil
}

func resolveConfig(path string) (Config, error) {
	mode := ModePlain
	if secureSQLiteSupported() {
		mode = ModeSecure
	}

	if dbPath := strings.TrimSpace(path); dbPath != "" {
		return Config{Mode: mode, Path: dbPath}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve user config directory: %w", err)
	}

	return Config{
		Mode: mode,
		Path: filepath.Join(configDir, "monthlens", "monthlens.db"),
	}, nil
}

func openerFor(cfg Config) (opener, error) {
	if cfg.Mode == ModePlain {
		return func() (*sql.DB, error) { return openPlainSQLite(cfg.Path) }, nil
	}

	key, created, err := ensureDBKey()
	if err != nil {
		return nil, fmt.Errorf("ensure secure db key: %w", err)
	}
	if created {
		// a fresh key cannot read a file encrypted under the old one
		exists, err := hasLocalDBFiles(cfg.Path)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := resetLocalDBFiles(cfg.Path); err != nil {
				return nil, fmt.Errorf("reset db after key creation: %w", err)
			}
		}
	}
	return func() (*sql.DB, error) { return openSecureSQLite(cfg.Path, key) }, nil
}

func openPlainSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, fmt.Errorf("set db permissions: %w", err)
	}
	return db, nil
}

func ensureDBKey() (key string, created bool, err error) {
	key, err = auth.LoadDBKey()
	if err == nil && strings.TrimSpace(key) != "" {
		return key, false, nil
	}

	newKey, err := generateRandomKey()
	if err != nil {
		return "", false, err
	}

	if err := auth.SaveDBKey(newKey); err != nil {
		return "", false, err
	}
	return newKey, true, nil
}

func generateRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

// runMigrations applies the embedded migrations on a separate connection,
// since closing the migrate instance closes its database.
func runMigrations(open opener) error {
	migrateDB, err := open()
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Wipe removes local database files for the resolved path.
func Wipe(path string) (Config, error) {
	cfg, err := resolveConfig(path)
	if err != nil {
		return Config{}, err
	}
	if err := resetLocalDBFiles(cfg.Path); err != nil {
		return Config{}, fmt.Errorf("wipe local db files: %w", err)
	}
	return cfg, nil
}

func resetLocalDBFiles(path string) error {
	for _, p := range localDBFiles(path) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range localDBFiles(path) {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return false, nil
}

func localDBFiles(path string) []string {
	return []string{
		path,
		path + "-wal",
		path + "-shm",
	}
}
