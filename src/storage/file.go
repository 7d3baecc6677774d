package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"stock-board/src/helpers"
	"stock-board/src/logger"
	"stock-board/src/models"
)

// -----------------------------------------------------------------------------

// FileStore keeps one JSON file per visitor under a data directory.
type FileStore struct {
	Config *models.MConfig
	Dir    string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewFileStore(cfg *models.MConfig, log *logger.Logger) (*FileStore, error) {
	if cfg.Storage.DataDir == "" {
		return nil, helpers.NewConfigurationError("storage.data_dir is required for the file store", nil)
	}
	return &FileStore{
		Config: cfg,
		Dir:    cfg.Storage.DataDir,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *FileStore) Initialize() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return helpers.NewStoreError("cannot create data dir", err)
	}
	s.Logger.Info("File store ready at %s", s.Dir)
	return nil
}

// -----------------------------------------------------------------------------

// FileName maps a visitor key onto its document file name.
func FileName(key string) string {
	return fmt.Sprintf("user_data_%s.json", helpers.SanitizeKey(key))
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, FileName(key))
}

// -----------------------------------------------------------------------------

func (s *FileStore) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, helpers.NewStoreError("cannot read visitor document", err)
	}
	return data, true, nil
}

// -----------------------------------------------------------------------------

// Save writes through a temp file and rename so a crash never leaves a
// half-written document.
func (s *FileStore) Save(key string, doc []byte) error {
	tmp, err := os.CreateTemp(s.Dir, ".user_data_*.tmp")
	if err != nil {
		return helpers.NewStoreError("cannot create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return helpers.NewStoreError("cannot write visitor document", err)
	}
	if err := tmp.Close(); err != nil {
		return helpers.NewStoreError("cannot write visitor document", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return helpers.NewStoreError("cannot replace visitor document", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *FileStore) Close() error {
	return nil
}
