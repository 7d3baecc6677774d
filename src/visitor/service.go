// Package visitor manages per-visitor folders, favorites and memos on top of
// a document store.
package visitor

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stock-board/src/helpers"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
	"stock-board/src/models"
)

const (
	addedDateLayout   = "2006-01-02"
	updatedDateLayout = "2006-01-02 15:04:05"
)

// -----------------------------------------------------------------------------

// Service caches one document per visitor key. Keys are sanitized first, so
// keys that share a stored document also share its lock and cache entry.
// Every operation on a key runs under that key's lock, so load, mutate and
// save never interleave for the same visitor while different visitors
// proceed in parallel.
type Service struct {
	store  interfaces.IDocumentStore
	logger *logger.Logger
	now    func() time.Time
	newID  func() string

	mu    sync.Mutex
	cache map[string]*models.MVisitorDocument
	locks map[string]*sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now for date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the folder id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// -----------------------------------------------------------------------------

func NewService(store interfaces.IDocumentStore, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log,
		now:    time.Now,
		newID:  func() string { return "folder_" + uuid.NewString()[:8] },
		cache:  make(map[string]*models.MVisitorDocument),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// -----------------------------------------------------------------------------
// Document lifecycle
// -----------------------------------------------------------------------------

func (s *Service) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// load returns the cached document, reading it from the store on first use.
// Must be called with the key's lock held.
func (s *Service) load(key string) (*models.MVisitorDocument, error) {
	s.mu.Lock()
	doc, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return doc, nil
	}

	raw, found, err := s.store.Load(key)
	if err != nil {
		return nil, err
	}

	switch {
	case !found:
		doc = models.NewVisitorDocument()
	default:
		var migrated, parsed bool
		doc, migrated, parsed = decodeDocument(raw)
		if !parsed {
			s.logger.Warning("Corrupt document for visitor %s, starting fresh", key)
			doc = models.NewVisitorDocument()
		} else if migrated {
			s.logger.Info("Migrated legacy document for visitor %s", key)
		}
	}

	s.mu.Lock()
	s.cache[key] = doc
	s.mu.Unlock()
	return doc, nil
}

func (s *Service) save(key string, doc *models.MVisitorDocument) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return helpers.NewStoreError("cannot encode visitor document", err)
	}
	if err := s.store.Save(key, raw); err != nil {
		s.logger.Error("Failed to save document for visitor %s: %v", key, err)
		return err
	}
	return nil
}

// view runs fn against the document without saving.
func (s *Service) view(key string, fn func(doc *models.MVisitorDocument)) error {
	key = helpers.SanitizeKey(key)
	l := s.lockFor(key)
	l.Lock()
	defer l.Unlock()

	doc, err := s.load(key)
	if err != nil {
		return err
	}
	fn(doc)
	return nil
}

// update runs fn and saves the document when fn reports a change. A failed
// save evicts the cached document so the next access rereads the store.
func (s *Service) update(key string, fn func(doc *models.MVisitorDocument) bool) (bool, error) {
	key = helpers.SanitizeKey(key)
	l := s.lockFor(key)
	l.Lock()
	defer l.Unlock()

	doc, err := s.load(key)
	if err != nil {
		return false, err
	}
	if !fn(doc) {
		return false, nil
	}
	if err := s.save(key, doc); err != nil {
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// -----------------------------------------------------------------------------
// Folders
// -----------------------------------------------------------------------------

// Folders lists folders in display order with their favorite counts.
func (s *Service) Folders(key string) ([]models.MFolderSummary, error) {
	var out []models.MFolderSummary
	err := s.view(key, func(doc *models.MVisitorDocument) {
		out = make([]models.MFolderSummary, len(doc.Folders))
		for i, f := range doc.Folders {
			out[i] = models.MFolderSummary{MFolder: f, Count: len(doc.Favorites[f.ID])}
		}
	})
	return out, err
}

func (s *Service) CreateFolder(key, name string) (models.MFolder, error) {
	folder := models.MFolder{ID: s.newID(), Name: name}
	_, err := s.update(key, func(doc *models.MVisitorDocument) bool {
		doc.Folders = append(doc.Folders, folder)
		doc.Favorites[folder.ID] = []models.MFavorite{}
		return true
	})
	return folder, err
}

// DeleteFolder removes a folder and its favorites. The default folder is
// refused; an unknown id still succeeds.
func (s *Service) DeleteFolder(key, folderID string) (bool, error) {
	if folderID == models.DefaultFolderID {
		return false, nil
	}
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		kept := doc.Folders[:0]
		for _, f := range doc.Folders {
			if f.ID != folderID {
				kept = append(kept, f)
			}
		}
		doc.Folders = kept
		delete(doc.Favorites, folderID)
		return true
	})
}

func (s *Service) RenameFolder(key, folderID, name string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		for i := range doc.Folders {
			if doc.Folders[i].ID == folderID {
				doc.Folders[i].Name = name
				return true
			}
		}
		return false
	})
}

// ReorderFolders puts the listed folders first in the given order. Unknown
// ids are ignored and unlisted folders keep their relative order at the end.
func (s *Service) ReorderFolders(key string, folderIDs []string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		byID := make(map[string]models.MFolder, len(doc.Folders))
		for _, f := range doc.Folders {
			byID[f.ID] = f
		}
		listed := make(map[string]bool, len(folderIDs))

		ordered := make([]models.MFolder, 0, len(doc.Folders))
		for _, id := range folderIDs {
			if f, ok := byID[id]; ok && !listed[id] {
				ordered = append(ordered, f)
			}
			listed[id] = true
		}
		for _, f := range doc.Folders {
			if !listed[f.ID] {
				ordered = append(ordered, f)
			}
		}
		doc.Folders = ordered
		return true
	})
}

// -----------------------------------------------------------------------------
// Favorites
// -----------------------------------------------------------------------------

// Favorites lists one folder. An unknown folder yields an empty list.
func (s *Service) Favorites(key, folderID string) ([]models.MFavorite, error) {
	out := []models.MFavorite{}
	err := s.view(key, func(doc *models.MVisitorDocument) {
		out = append(out, doc.Favorites[folderID]...)
	})
	return out, err
}

// AllFavorites lists every favorite with its folder, folders in display
// order first.
func (s *Service) AllFavorites(key string) ([]models.MFavoriteEntry, error) {
	out := []models.MFavoriteEntry{}
	err := s.view(key, func(doc *models.MVisitorDocument) {
		for _, folderID := range folderOrder(doc) {
			for _, fav := range doc.Favorites[folderID] {
				out = append(out, models.MFavoriteEntry{MFavorite: fav, FolderID: folderID})
			}
		}
	})
	return out, err
}

// AddFavorite appends an instrument to a folder, creating the folder's list
// if needed. A duplicate (code, market) in the same folder returns false.
func (s *Service) AddFavorite(key, folderID, code, name, market string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		favs := doc.Favorites[folderID]
		if indexOf(favs, code, market) >= 0 {
			return false
		}
		doc.Favorites[folderID] = append(favs, models.MFavorite{
			Code:      code,
			Name:      name,
			Market:    market,
			AddedDate: s.now().Format(addedDateLayout),
		})
		return true
	})
}

func (s *Service) RemoveFavorite(key, folderID, code, market string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		favs, ok := doc.Favorites[folderID]
		if !ok {
			return false
		}
		i := indexOf(favs, code, market)
		if i < 0 {
			return false
		}
		doc.Favorites[folderID] = append(favs[:i:i], favs[i+1:]...)
		return true
	})
}

// MoveFavorite moves an instrument between two existing folder lists.
func (s *Service) MoveFavorite(key, code, fromFolder, toFolder, market string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		from, okFrom := doc.Favorites[fromFolder]
		_, okTo := doc.Favorites[toFolder]
		if !okFrom || !okTo {
			return false
		}
		i := indexOf(from, code, market)
		if i < 0 {
			return false
		}
		item := from[i]
		doc.Favorites[fromFolder] = append(from[:i:i], from[i+1:]...)
		doc.Favorites[toFolder] = append(doc.Favorites[toFolder], item)
		return true
	})
}

// ReorderFavorites orders a folder by "<market>_<code>" keys. Unknown keys
// are ignored and unlisted favorites are appended.
func (s *Service) ReorderFavorites(key, folderID string, favoriteKeys []string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		favs, ok := doc.Favorites[folderID]
		if !ok {
			return false
		}
		byKey := make(map[string]models.MFavorite, len(favs))
		for _, f := range favs {
			byKey[f.Key()] = f
		}
		listed := make(map[string]bool, len(favoriteKeys))

		ordered := make([]models.MFavorite, 0, len(favs))
		for _, k := range favoriteKeys {
			if f, ok := byKey[k]; ok && !listed[k] {
				ordered = append(ordered, f)
			}
			listed[k] = true
		}
		for _, f := range favs {
			if !listed[f.Key()] {
				ordered = append(ordered, f)
			}
		}
		doc.Favorites[folderID] = ordered
		return true
	})
}

// FavoriteStatus reports the first folder (in display order) holding the
// instrument.
func (s *Service) FavoriteStatus(key, code, market string) (models.MFavoriteStatus, error) {
	status := models.MFavoriteStatus{}
	err := s.view(key, func(doc *models.MVisitorDocument) {
		for _, folderID := range folderOrder(doc) {
			if indexOf(doc.Favorites[folderID], code, market) < 0 {
				continue
			}
			id, name := folderID, ""
			for _, f := range doc.Folders {
				if f.ID == folderID {
					name = f.Name
					break
				}
			}
			status = models.MFavoriteStatus{IsFavorite: true, FolderID: &id, FolderName: &name}
			return
		}
	})
	return status, err
}

// -----------------------------------------------------------------------------
// Memos
// -----------------------------------------------------------------------------

// Memo returns the memo text, or "" when none exists.
func (s *Service) Memo(key, code, market string) (string, error) {
	var content string
	err := s.view(key, func(doc *models.MVisitorDocument) {
		content = doc.Memos[models.MemoKey(market, code)].Content
	})
	return content, err
}

func (s *Service) SetMemo(key, code, content, market string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		doc.Memos[models.MemoKey(market, code)] = models.MMemo{
			Content:     content,
			UpdatedDate: s.now().Format(updatedDateLayout),
		}
		return true
	})
}

func (s *Service) DeleteMemo(key, code, market string) (bool, error) {
	return s.update(key, func(doc *models.MVisitorDocument) bool {
		memoKey := models.MemoKey(market, code)
		if _, ok := doc.Memos[memoKey]; !ok {
			return false
		}
		delete(doc.Memos, memoKey)
		return true
	})
}

// AllMemos lists memos sorted by key. A key without a market prefix is
// reported under the default market.
func (s *Service) AllMemos(key string) ([]models.MMemoEntry, error) {
	out := []models.MMemoEntry{}
	err := s.view(key, func(doc *models.MVisitorDocument) {
		keys := make([]string, 0, len(doc.Memos))
		for k := range doc.Memos {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			market, code, found := strings.Cut(k, "_")
			if !found {
				market, code = defaultMarket, k
			}
			m := doc.Memos[k]
			out = append(out, models.MMemoEntry{Code: code, Market: market, Content: m.Content, UpdatedDate: m.UpdatedDate})
		}
	})
	return out, err
}

// -----------------------------------------------------------------------------

func indexOf(favs []models.MFavorite, code, market string) int {
	for i, f := range favs {
		if f.Code == code && f.Market == market {
			return i
		}
	}
	return -1
}

// folderOrder lists favorite-list ids: known folders in display order, then
// orphan lists sorted by id.
func folderOrder(doc *models.MVisitorDocument) []string {
	seen := make(map[string]bool, len(doc.Folders))
	order := make([]string, 0, len(doc.Favorites))
	for _, f := range doc.Folders {
		if _, ok := doc.Favorites[f.ID]; ok && !seen[f.ID] {
			order = append(order, f.ID)
		}
		seen[f.ID] = true
	}
	var orphans []string
	for id := range doc.Favorites {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return append(order, orphans...)
}
