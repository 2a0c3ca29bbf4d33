// Package regdb contains registry related CRUD functionality backed by a
// SQLite file.
package regdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the required properties to use the database.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// ResolvePath returns the location of the database file. Relative paths are
// resolved against the directory holding the running executable.
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("executable: %w", err)
	}

	return filepath.Join(filepath.Dir(exe), path), nil
}

// Open knows how to open a database connection based on the configuration.
func Open(cfg Config) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}

	// SQLite allows a single writer, so every transaction is serialized
	// through one connection.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	return sqlDB.Close()
}

// =============================================================================

// Store manages the set of APIs for registry database access.
type Store struct {
	log *logger.Logger
	db  *gorm.DB
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// StatusCheck returns nil if it can successfully talk to the database.
func (s *Store) StatusCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	return nil
}

// ExecUnderTx runs the function against a store bound to a single
// transaction. The transaction is committed when the function returns nil.
func (s *Store) ExecUnderTx(ctx context.Context, fn func(s registry.Storer) error) error {
	f := func(tx *gorm.DB) error {
		return fn(&Store{
			log: s.log,
			db:  tx,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(f); err != nil {
		return fmt.Errorf("exec under tx: %w", err)
	}

	return nil
}

// QueryUserByName gets the specified user from the database.
func (s *Store) QueryUserByName(ctx context.Context, name string) (registry.User, error) {
	var dbUsr user
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&dbUsr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return registry.User{}, registry.ErrNotFound
		}
		return registry.User{}, fmt.Errorf("query user: %w", err)
	}

	return toUser(dbUsr)
}

// QueryAddressesByUserID gets the address history for the specified user.
func (s *Store) QueryAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]registry.Address, error) {
	var dbAddrs []address
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID.String()).Order("id").Find(&dbAddrs).Error; err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}

	return toAddresses(dbAddrs)
}

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, usr registry.User) error {
	if err := s.db.WithContext(ctx).Create(toDBUser(usr)).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("insert user: %w", registry.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// CreateAddress inserts a new address into the database. The returned
// address carries the identifier the database assigned.
func (s *Store) CreateAddress(ctx context.Context, addr registry.Address) (registry.Address, error) {
	dbAddr := toDBAddress(addr)
	if err := s.db.WithContext(ctx).Create(&dbAddr).Error; err != nil {
		return registry.Address{}, fmt.Errorf("insert address: %w", err)
	}

	addr.ID = dbAddr.ID

	return addr, nil
}

// =============================================================================

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return true
		}
	}

	return false
}
