package regdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		address TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_name ON users (name)`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_user_id ON addresses (user_id)`,
}

// Migrate ensures the users and addresses tables exist. It is safe to run
// against a database that already has them.
func Migrate(ctx context.Context, db *gorm.DB) error {
	f := func(tx *gorm.DB) error {
		for i, stmt := range schema {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement[%d]: %w", i, err)
			}
		}
		return nil
	}

	if err := db.WithContext(ctx).Transaction(f); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
