package database

import (
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	Path string
}

// Init initializes the database connection and applies pending migrations
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		// Pragmas go in the DSN so every pooled connection gets them.
		dsn := "file:" + cfg.Path +
			"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return
		}

		// Set connection pool settings
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)

		// Test connection
		err = db.Ping()
		if err != nil {
			return
		}

		err = NewMigrationManager(db).RunMigrations()
		if err != nil {
			return
		}

		zap.S().Infof("[Database] initialized: %s", cfg.Path)
	})

	return err
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	if db == nil {
		zap.S().Fatal("[Database] not initialized, call Init() first")
	}
	return db
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Transaction executes a function within a database transaction
func Transaction(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
