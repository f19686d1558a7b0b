// Package store implements the record store: each named collection is
// persisted as a single JSON blob in a key-value table, mirroring the
// way the data was kept before this service owned it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one persisted collection, keyed by collection name.
type Blob struct {
	Name      string `gorm:"primaryKey;size:64"`
	Data      []byte
	UpdatedAt time.Time
}

type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file; ":memory:" works for tests.
	Path string
}

// Store reads and writes whole collections as JSON blobs.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New opens the configured database and migrates the blob table.
func New(cfg *Config, logger *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", e.ErrInvalidInput, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, logger: logger.Named("store")}, nil
}

// Load reads the named collection into out, which must be a pointer to
// a slice. An absent blob or one that no longer parses leaves out as
// the empty collection and does not fail the caller; the corrupt case
// is logged. Only a database read failure is returned, wrapped as a
// storage error, so callers can decide to degrade.
func (s *Store) Load(ctx context.Context, collection string, out any) error {
	var blob Blob
	result := s.db.WithContext(ctx).First(&blob, "name = ?", collection)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("%w: load %s: %v", e.ErrStorage, collection, result.Error)
	}
	if err := json.Unmarshal(blob.Data, out); err != nil {
		s.logger.Warn("discarding unparsable collection blob",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}
	return nil
}

// Save serializes the full collection and overwrites the named blob in
// a single transaction, so readers never observe a partial write.
func (s *Store) Save(ctx context.Context, collection string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", e.ErrStorage, collection, err)
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&Blob{Name: collection, Data: data, UpdatedAt: time.Now()})
	if result.Error != nil {
		return fmt.Errorf("%w: save %s: %v", e.ErrStorage, collection, result.Error)
	}
	return nil
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
