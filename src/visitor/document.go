package visitor

import (
	"encoding/json"

	"stock-board/src/models"
)

// defaultMarket is assumed for favorites saved before markets were tracked.
const defaultMarket = "kr"

// decodeDocument parses a stored document. Documents written before folders
// existed hold a flat favorites list, which is wrapped into the default
// folder. ok is false when the bytes cannot be parsed at all.
func decodeDocument(raw []byte) (doc *models.MVisitorDocument, migrated bool, ok bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, false
	}

	if _, hasFolders := probe["folders"]; !hasFolders {
		doc = models.NewVisitorDocument()
		var legacy []models.MFavorite
		if old, exists := probe["favorites"]; exists && json.Unmarshal(old, &legacy) == nil && legacy != nil {
			doc.Favorites[models.DefaultFolderID] = legacy
		}
		normalize(doc)
		return doc, true, true
	}

	doc = &models.MVisitorDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, false, false
	}
	normalize(doc)
	return doc, false, true
}

// normalize fills nil collections and legacy market-less favorites.
func normalize(doc *models.MVisitorDocument) {
	if doc.Folders == nil {
		doc.Folders = []models.MFolder{}
	}
	if doc.Favorites == nil {
		doc.Favorites = map[string][]models.MFavorite{}
	}
	if doc.Memos == nil {
		doc.Memos = map[string]models.MMemo{}
	}
	for folderID, favs := range doc.Favorites {
		if favs == nil {
			doc.Favorites[folderID] = []models.MFavorite{}
			continue
		}
		for i := range favs {
			if favs[i].Market == "" {
				favs[i].Market = defaultMarket
			}
		}
	}
}

func encodeDocument(doc *models.MVisitorDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
