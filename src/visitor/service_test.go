package visitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-board/src/logger"
	"stock-board/src/models"
)

type memStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	saves   int
	saveErr error
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (m *memStore) Initialize() error { return nil }
func (m *memStore) Close() error      { return nil }

func (m *memStore) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	return doc, ok, nil
}

func (m *memStore) Save(key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[key] = append([]byte(nil), doc...)
	m.saves++
	return nil
}

var fixedNow = time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC)

func newTestService(store *memStore) *Service {
	n := 0
	return NewService(store, logger.NewSilentLogger("visitor"),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("folder_%d", n) }),
	)
}

const (
	ip    = "203.0.113.7"
	ipKey = "203_0_113_7" // ip as stored
)

// -----------------------------------------------------------------------------

func TestDefaultDocument(t *testing.T) {
	svc := newTestService(newMemStore())

	folders, err := svc.Folders(ip)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, models.DefaultFolderID, folders[0].ID)
	assert.Equal(t, models.DefaultFolderName, folders[0].Name)
	assert.Equal(t, 0, folders[0].Count)
}

func TestFolderLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	a, err := svc.CreateFolder(ip, "Semis")
	require.NoError(t, err)
	assert.Equal(t, "folder_1", a.ID)
	b, _ := svc.CreateFolder(ip, "Banks")

	ok, _ := svc.RenameFolder(ip, b.ID, "Financials")
	assert.True(t, ok)
	ok, _ = svc.RenameFolder(ip, "missing", "x")
	assert.False(t, ok)

	ok, _ = svc.ReorderFolders(ip, []string{b.ID, "ghost", models.DefaultFolderID})
	assert.True(t, ok)
	folders, _ := svc.Folders(ip)
	ids := []string{folders[0].ID, folders[1].ID, folders[2].ID}
	assert.Equal(t, []string{b.ID, models.DefaultFolderID, a.ID}, ids)
	assert.Equal(t, "Financials", folders[0].Name)

	ok, _ = svc.DeleteFolder(ip, models.DefaultFolderID)
	assert.False(t, ok)
	ok, _ = svc.DeleteFolder(ip, a.ID)
	assert.True(t, ok)
	ok, _ = svc.DeleteFolder(ip, "never-existed")
	assert.True(t, ok)

	folders, _ = svc.Folders(ip)
	assert.Len(t, folders, 2)

	var saved models.MVisitorDocument
	require.NoError(t, json.Unmarshal(store.docs[ipKey], &saved))
	assert.Len(t, saved.Folders, 2)
	_, hasA := saved.Favorites[a.ID]
	assert.False(t, hasA)
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	ok, err := svc.AddFavorite(ip, models.DefaultFolderID, "005930", "Samsung", "kr")
	require.NoError(t, err)
	assert.True(t, ok)
	before := string(store.docs[ipKey])
	saves := store.saves

	ok, err = svc.AddFavorite(ip, models.DefaultFolderID, "005930", "Samsung", "kr")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, string(store.docs[ipKey]))
	assert.Equal(t, saves, store.saves)

	// Same code in another market is a different instrument.
	ok, _ = svc.AddFavorite(ip, models.DefaultFolderID, "005930", "Other", "us")
	assert.True(t, ok)

	favs, _ := svc.Favorites(ip, models.DefaultFolderID)
	require.Len(t, favs, 2)
	assert.Equal(t, "2024-03-15", favs[0].AddedDate)
}

func TestFavoriteMoves(t *testing.T) {
	svc := newTestService(newMemStore())
	f, _ := svc.CreateFolder(ip, "Watch")

	svc.AddFavorite(ip, models.DefaultFolderID, "AAPL", "Apple", "us")
	svc.AddFavorite(ip, models.DefaultFolderID, "MSFT", "Microsoft", "us")
	svc.AddFavorite(ip, models.DefaultFolderID, "005930", "Samsung", "kr")

	ok, _ := svc.ReorderFavorites(ip, models.DefaultFolderID, []string{"kr_005930", "us_NOPE", "us_AAPL"})
	assert.True(t, ok)
	favs, _ := svc.Favorites(ip, models.DefaultFolderID)
	assert.Equal(t, []string{"005930", "AAPL", "MSFT"}, []string{favs[0].Code, favs[1].Code, favs[2].Code})

	ok, _ = svc.ReorderFavorites(ip, "nope", nil)
	assert.False(t, ok)

	ok, _ = svc.MoveFavorite(ip, "AAPL", models.DefaultFolderID, f.ID, "us")
	assert.True(t, ok)
	ok, _ = svc.MoveFavorite(ip, "AAPL", models.DefaultFolderID, f.ID, "us")
	assert.False(t, ok)
	ok, _ = svc.MoveFavorite(ip, "MSFT", models.DefaultFolderID, "nope", "us")
	assert.False(t, ok)

	status, _ := svc.FavoriteStatus(ip, "AAPL", "us")
	assert.True(t, status.IsFavorite)
	require.NotNil(t, status.FolderID)
	assert.Equal(t, f.ID, *status.FolderID)
	assert.Equal(t, "Watch", *status.FolderName)

	status, _ = svc.FavoriteStatus(ip, "AAPL", "kr")
	assert.False(t, status.IsFavorite)
	assert.Nil(t, status.FolderID)

	all, _ := svc.AllFavorites(ip)
	require.Len(t, all, 3)
	assert.Equal(t, models.DefaultFolderID, all[0].FolderID)
	assert.Equal(t, f.ID, all[2].FolderID)

	ok, _ = svc.RemoveFavorite(ip, f.ID, "AAPL", "us")
	assert.True(t, ok)
	ok, _ = svc.RemoveFavorite(ip, f.ID, "AAPL", "us")
	assert.False(t, ok)

	folders, _ := svc.Folders(ip)
	assert.Equal(t, 2, folders[0].Count)
	assert.Equal(t, 0, folders[1].Count)
}

func TestMemos(t *testing.T) {
	svc := newTestService(newMemStore())

	memo, err := svc.Memo(ip, "AAPL", "us")
	require.NoError(t, err)
	assert.Equal(t, "", memo)

	svc.SetMemo(ip, "AAPL", "earnings 4/30", "us")
	svc.SetMemo(ip, "005930", "hbm", "kr")

	memo, _ = svc.Memo(ip, "AAPL", "us")
	assert.Equal(t, "earnings 4/30", memo)

	all, _ := svc.AllMemos(ip)
	require.Len(t, all, 2)
	assert.Equal(t, models.MMemoEntry{Code: "005930", Market: "kr", Content: "hbm", UpdatedDate: "2024-03-15 09:30:05"}, all[0])
	assert.Equal(t, "us", all[1].Market)

	ok, _ := svc.DeleteMemo(ip, "AAPL", "us")
	assert.True(t, ok)
	ok, _ = svc.DeleteMemo(ip, "AAPL", "us")
	assert.False(t, ok)
}

func TestLegacyAndCorruptDocuments(t *testing.T) {
	store := newMemStore()
	store.docs["legacy"] = []byte(`{"favorites":[{"code":"000660","name":"Hynix"}]}`)
	store.docs["broken"] = []byte(`{"folders": [`)
	store.docs["memo_keys"] = []byte(`{"folders":[{"id":"default","name":"기본 폴더"}],"favorites":{"default":[]},"memos":{"nokey":{"content":"x","updated_date":""}}}`)
	svc := newTestService(store)

	favs, err := svc.Favorites("legacy", models.DefaultFolderID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "000660", favs[0].Code)
	assert.Equal(t, "kr", favs[0].Market)

	folders, err := svc.Folders("broken")
	require.NoError(t, err)
	assert.Len(t, folders, 1)

	memos, _ := svc.AllMemos("memo_keys")
	require.Len(t, memos, 1)
	assert.Equal(t, "kr", memos[0].Market)
	assert.Equal(t, "nokey", memos[0].Code)
}

func TestConcurrentUpdatesSameVisitor(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.AddFavorite(ip, models.DefaultFolderID, fmt.Sprintf("%06d", i), "x", "kr")
			svc.SetMemo("other", fmt.Sprintf("%06d", i), "m", "kr")
		}(i)
	}
	wg.Wait()

	favs, _ := svc.Favorites(ip, models.DefaultFolderID)
	assert.Len(t, favs, 50)

	// A fresh service reading the same store sees every update.
	reloaded := newTestService(store)
	favs, _ = reloaded.Favorites(ip, models.DefaultFolderID)
	assert.Len(t, favs, 50)
	memos, _ := reloaded.AllMemos("other")
	assert.Len(t, memos, 50)
}

func TestKeysSharingADocumentShareItsLock(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "1.2.3.4"
			if i%2 == 1 {
				key = "1_2_3_4"
			}
			svc.AddFavorite(key, models.DefaultFolderID, fmt.Sprintf("%06d", i), "x", "kr")
		}(i)
	}
	wg.Wait()

	require.Len(t, store.docs, 1)
	reloaded := newTestService(store)
	favs, err := reloaded.Favorites("1.2.3.4", models.DefaultFolderID)
	require.NoError(t, err)
	assert.Len(t, favs, 40)
}

func TestFailedSaveDoesNotLeakIntoCache(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	ok, err := svc.AddFavorite(ip, models.DefaultFolderID, "005930", "Samsung", "kr")
	require.NoError(t, err)
	require.True(t, ok)

	store.saveErr = errors.New("disk full")
	ok, err = svc.AddFavorite(ip, models.DefaultFolderID, "000660", "Hynix", "kr")
	require.Error(t, err)
	assert.False(t, ok)

	favs, err := svc.Favorites(ip, models.DefaultFolderID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "005930", favs[0].Code)

	// The next successful save must not carry the rejected change.
	store.saveErr = nil
	_, err = svc.SetMemo(ip, "005930", "hbm", "kr")
	require.NoError(t, err)
	reloaded := newTestService(store)
	favs, _ = reloaded.Favorites(ip, models.DefaultFolderID)
	assert.Len(t, favs, 1)
}
