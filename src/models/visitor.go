package models

// DefaultFolderID is the folder every document starts with. It cannot be
// deleted.
const DefaultFolderID = "default"

// DefaultFolderName is the display name of the default folder.
const DefaultFolderName = "기본 폴더"

type MFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MFolderSummary is a folder with its favorite count.
type MFolderSummary struct {
	MFolder
	Count int `json:"count"`
}

type MFavorite struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Market    string `json:"market"`
	AddedDate string `json:"added_date"`
}

// Key is the "<market>_<code>" identity used for ordering requests.
func (f MFavorite) Key() string {
	return f.Market + "_" + f.Code
}

// MFavoriteEntry is a favorite annotated with its folder.
type MFavoriteEntry struct {
	MFavorite
	FolderID string `json:"folder_id"`
}

type MMemo struct {
	Content     string `json:"content"`
	UpdatedDate string `json:"updated_date"`
}

// MMemoEntry is a memo listed with its instrument identity.
type MMemoEntry struct {
	Code        string `json:"code"`
	Market      string `json:"market"`
	Content     string `json:"content"`
	UpdatedDate string `json:"updated_date"`
}

// MFavoriteStatus answers whether an instrument is in any folder.
type MFavoriteStatus struct {
	IsFavorite bool    `json:"is_favorite"`
	FolderID   *string `json:"folder_id"`
	FolderName *string `json:"folder_name"`
}

// MVisitorDocument is everything stored for one visitor.
type MVisitorDocument struct {
	Folders   []MFolder              `json:"folders"`
	Favorites map[string][]MFavorite `json:"favorites"`
	Memos     map[string]MMemo       `json:"memos"`
}

// NewVisitorDocument returns a document holding only the default folder.
func NewVisitorDocument() *MVisitorDocument {
	return &MVisitorDocument{
		Folders:   []MFolder{{ID: DefaultFolderID, Name: DefaultFolderName}},
		Favorites: map[string][]MFavorite{DefaultFolderID: {}},
		Memos:     map[string]MMemo{},
	}
}

// MemoKey builds the memo map key for an instrument.
func MemoKey(market, code string) string {
	return market + "_" + code
}
