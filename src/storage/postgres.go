package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"stock-board/src/helpers"
	"stock-board/src/logger"
	"stock-board/src/models"
)

// -----------------------------------------------------------------------------

type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPostgresStore names the schema after the running executable so several
// deployments can share one database.
func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	if cfg.Storage.DBConnectionString == "" {
		return nil, helpers.NewConfigurationError("storage.db_connection_string is required for postgres", nil)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresStore{
		Config: cfg,
		Schema: schemaName(name),
		Logger: log,
	}, nil
}

// schemaName keeps identifier characters only; quoting handles the rest.
func schemaName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" {
		return "stock_board"
	}
	return name
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return helpers.NewStoreError("cannot open postgres", err)
	}

	err = helpers.RetryWithBackoff(context.Background(), d.Logger, "postgres ping", 5, time.Second, db.Ping)
	if err != nil {
		db.Close()
		return helpers.NewStoreError("postgres unreachable", err)
	}

	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewStoreError(fmt.Sprintf("failed to create schema %s", d.Schema), err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."visitor_documents" (
			visitor_key TEXT PRIMARY KEY,
			document JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewStoreError("failed to create visitor_documents", err)
	}

	d.Logger.Info("PostgresStore initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Load(key string) ([]byte, bool, error) {
	var doc string
	query := fmt.Sprintf(`SELECT document::text FROM "%s"."visitor_documents" WHERE visitor_key = $1`, d.Schema)
	err := d.DB.QueryRow(query, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helpers.NewStoreError("cannot load visitor document", err)
	}
	return []byte(doc), true, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Save(key string, doc []byte) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return helpers.NewStoreError("cannot begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO "%s"."visitor_documents" (visitor_key, document, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (visitor_key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, d.Schema))
	if err != nil {
		return helpers.NewStoreError("cannot prepare upsert", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(key, string(doc), time.Now().UTC()); err != nil {
		return helpers.NewStoreError("cannot save visitor document", err)
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
