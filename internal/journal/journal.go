// Package journal records committed generation runs in a relational store.
//
// Overview:
//   - Responsibility: Persist and list generation runs (module, kind, files written)
//   - Key Types: Store (GORM-backed), Entry model, Options
//   - Concurrency Model: Store is safe for concurrent use; *gorm.DB manages its own pool
//   - Error Semantics: UNAVAILABLE when the database cannot be opened, INTERNAL on query failure
//   - Performance Notes: One insert per run, indexed by module key
//
// Usage:
//
//	store, err := journal.Open(ctx, journal.Options{Driver: "sqlite", DSN: ".dddmaker/journal.db"})
//	defer store.Close()
//	entry, err := store.Record(ctx, journal.Entry{ModulePath: "Billing/Invoice", Kind: "full"})
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/core/log"
)

// Entry is one committed generation run.
type Entry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ModuleKey  string    `gorm:"index;size:255;not null" json:"module_key"`
	ModulePath string    `gorm:"size:1024;not null" json:"module_path"`
	Kind       string    `gorm:"size:16;not null" json:"kind"`
	WithSpec   bool      `json:"with_spec"`
	Files      []string  `gorm:"serializer:json" json:"files"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (Entry) TableName() string {
	return "dddmaker_runs"
}

// Options holds configuration for opening a journal.
type Options struct {
	Driver string     // sqlite, mysql or postgres
	DSN    string     // Driver-specific connection string
	Logger log.Logger // Logger for database traces
}

// ListOptions filters List results.
type ListOptions struct {
	Limit     int    // Maximum entries returned; zero means 20
	ModuleKey string // Only entries for this module key
}

// Store persists journal entries.
type Store struct {
	db     *gorm.DB
	logger log.Logger
	now    func() time.Time
}

// Open connects to the journal database and migrates its schema.
//
// Parameters:
//   - ctx: Context bounding the connection check and migration
//   - opts: Driver, DSN and logger
//
// Returns:
//   - *Store: Ready store
//   - error: INVALID_ARGUMENT for unusable options, UNAVAILABLE when the database cannot be reached
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.DSN == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "journal DSN is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}

	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: &gormLogAdapter{logger: opts.Logger},
	})
	if err != nil {
		return nil, errors.Wrapf(errors.CodeUnavailable, "journal.open", err, "open %s journal", opts.Driver)
	}

	store := &Store{db: db, logger: opts.Logger, now: time.Now}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		_ = store.Close()
		return nil, errors.Wrap(errors.CodeInternal, "journal.migrate", err)
	}

	opts.Logger.Debug("journal opened", log.Str("driver", opts.Driver))
	return store, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, errors.Wrapf(errors.CodeUnavailable, "journal.open", err, "prepare %s", dsn)
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidArgument, "unsupported journal driver: %s", driver)
	}
}

// ensureSQLiteDir creates the parent directory of a file-backed sqlite DSN.
func ensureSQLiteDir(dsn string) error {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	path, _, _ := strings.Cut(dsn, "?")
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Ping checks if the database connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(errors.CodeUnavailable, "journal.ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "journal.ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Record stores a run. ID, ModuleKey and CreatedAt are filled when empty.
//
// Parameters:
//   - ctx: Request context
//   - entry: Run to record; ModulePath and Kind are required
//
// Returns:
//   - Entry: The stored entry with generated fields set
//   - error: INVALID_ARGUMENT for incomplete entries, INTERNAL on insert failure
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ModulePath == "" || entry.Kind == "" {
		return Entry{}, errors.New(errors.CodeInvalidArgument, "journal entry needs a module path and kind")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ModuleKey == "" {
		entry.ModuleKey = slug.Make(entry.ModulePath)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if entry.Files == nil {
		entry.Files = []string{}
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return Entry{}, errors.Wrap(errors.CodeInternal, "journal.record", err)
	}

	s.logger.Debug("run recorded", log.Str("id", entry.ID), log.Str("module", entry.ModuleKey))
	return entry, nil
}

// List returns recorded runs, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if opts.ModuleKey != "" {
		query = query.Where("module_key = ?", opts.ModuleKey)
	}

	var entries []Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "journal.list", err)
	}
	return entries, nil
}

// gormLogAdapter adapts log.Logger to GORM's logger interface.
type gormLogAdapter struct {
	logger log.Logger
}

func (l *gormLogAdapter) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogAdapter) Info(_ context.Context, msg string, data ...any) {
	l.logger.Debug(fmt.Sprintf(msg, data...))
}

func (l *gormLogAdapter) Warn(_ context.Context, msg string, data ...any) {
	l.logger.Warn(fmt.Sprintf(msg, data...))
}

func (l *gormLogAdapter) Error(_ context.Context, msg string, data ...any) {
	l.logger.Error(nil, fmt.Sprintf(msg, data...))
}

func (l *gormLogAdapter) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.logger.Debug("journal query failed", log.Str("sql", sql), log.Str("error", err.Error()))
		return
	}
	l.logger.Debug("journal query",
		log.Str("sql", sql),
		log.Int("rows", int(rows)),
		log.Int("duration_ms", int(time.Since(begin).Milliseconds())))
}
