package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"stock-board/src/helpers"
	"stock-board/src/logger"
	"stock-board/src/models"
)

// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	if cfg.Storage.DBPath == "" {
		return nil, helpers.NewConfigurationError("storage.db_path is required for sqlite", nil)
	}
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewStoreError("cannot open sqlite", err)
	}

	err = helpers.RetryWithBackoff(context.Background(), d.Logger, "sqlite ping", 3, 200*time.Millisecond, db.Ping)
	if err != nil {
		db.Close()
		return helpers.NewStoreError("sqlite unreachable", err)
	}

	d.DB = db

	// Single writer keeps SQLITE_BUSY away
	d.DB.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS visitor_documents (
			visitor_key TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewStoreError("failed to create visitor_documents", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Load(key string) ([]byte, bool, error) {
	var doc string
	err := d.DB.QueryRow(`SELECT document FROM visitor_documents WHERE visitor_key = ?`, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helpers.NewStoreError("cannot load visitor document", err)
	}
	return []byte(doc), true, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Save(key string, doc []byte) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return helpers.NewStoreError("cannot begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO visitor_documents (visitor_key, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (visitor_key) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return helpers.NewStoreError("cannot prepare upsert", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(key, string(doc), time.Now().UTC().Unix()); err != nil {
		return helpers.NewStoreError("cannot save visitor document", err)
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
