package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type Database struct {
	db *sql.DB
}

func New(path string, logger *zap.Logger) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect db: %w", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("✅ database ready", zap.String("path", path))
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT UNIQUE NOT NULL,
			activity_1 TEXT NOT NULL,
			proportion_1 INTEGER NOT NULL CHECK(proportion_1 >= 0 AND proportion_1 <= 100),
			activity_2 TEXT NOT NULL,
			proportion_2 INTEGER NOT NULL CHECK(proportion_2 >= 0 AND proportion_2 <= 100),
			activity_3 TEXT NOT NULL,
			proportion_3 INTEGER NOT NULL CHECK(proportion_3 >= 0 AND proportion_3 <= 100),
			note TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(proportion_1 + proportion_2 + proportion_3 = 100)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
