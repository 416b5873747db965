// Package userdb implements a read-only lookup against the on-disk
// user database a listener's UserAuth mode authenticates connections
// against.
package userdb

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entry mirrors one row of the users table. Only existence is ever
// queried; passwords/hashes are out of scope here.
type entry struct {
	Username string `gorm:"primaryKey"`
}

func (entry) TableName() string { return "users" }

// DB is a read-only handle on the user database.
type DB struct {
	conn *gorm.DB
}

// Open opens the SQLite-backed user database at path.
func Open(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("userdb: open %q: %w", path, err)
	}
	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("userdb: migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Exists reports whether username has an entry in the database.
func (d *DB) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	result := d.conn.WithContext(ctx).Model(&entry{}).Where("username = ?", username).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("userdb: lookup %q: %w", username, result.Error)
	}
	return count > 0, nil
}
