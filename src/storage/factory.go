package storage

import (
	"fmt"

	"stock-board/src/helpers"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
	"stock-board/src/models"
)

// Backend names accepted in storage.db_type.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// NewDocumentStore builds the backend selected by storage.db_type. An empty
// type means the file store.
func NewDocumentStore(cfg *models.MConfig, log *logger.Logger) (interfaces.IDocumentStore, error) {
	switch cfg.Storage.DBType {
	case BackendFile, "":
		return NewFileStore(cfg, log)
	case BackendSQLite:
		return NewSQLiteStore(cfg, log)
	case BackendPostgres:
		return NewPostgresStore(cfg, log)
	}
	return nil, helpers.NewConfigurationError(fmt.Sprintf("unknown storage.db_type %q", cfg.Storage.DBType), nil)
}
