package server

import (
	"net/http"

	"stock-board/src/logger"
	"stock-board/src/models"
	"stock-board/src/visitor"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Request bodies
// -----------------------------------------------------------------------------

// Required strings are pointers so that binding checks presence only and an
// empty string is still a valid value.
type folderCreateRequest struct {
	Name *string `json:"name" binding:"required"`
}

type folderDeleteRequest struct {
	FolderID *string `json:"folder_id" binding:"required"`
}

type folderRenameRequest struct {
	FolderID *string `json:"folder_id" binding:"required"`
	NewName  *string `json:"new_name" binding:"required"`
}

type folderReorderRequest struct {
	FolderIDs []string `json:"folder_ids" binding:"required"`
}

type favoriteAddRequest struct {
	FolderID *string `json:"folder_id" binding:"required"`
	Code     *string `json:"code" binding:"required"`
	Name     *string `json:"name" binding:"required"`
	Market   string  `json:"market"`
}

type favoriteRemoveRequest struct {
	FolderID *string `json:"folder_id" binding:"required"`
	Code     *string `json:"code" binding:"required"`
	Market   string  `json:"market"`
}

type favoriteMoveRequest struct {
	Code       *string `json:"code" binding:"required"`
	FromFolder *string `json:"from_folder" binding:"required"`
	ToFolder   *string `json:"to_folder" binding:"required"`
	Market     string  `json:"market"`
}

type favoriteReorderRequest struct {
	FolderID     *string  `json:"folder_id" binding:"required"`
	FavoriteKeys []string `json:"favorite_keys" binding:"required"`
}

type memoSaveRequest struct {
	Code   *string `json:"code" binding:"required"`
	Memo   string  `json:"memo"`
	Market string  `json:"market"`
}

type memoDeleteRequest struct {
	Code   *string `json:"code" binding:"required"`
	Market string  `json:"market"`
}

func marketOrDefault(m string) string {
	if m == "" {
		return string(models.MarketKR)
	}
	return m
}

// -----------------------------------------------------------------------------
// userHandlers
// -----------------------------------------------------------------------------

type userHandlers struct {
	visitors *visitor.Service
	logger   *logger.Logger
}

// register mounts the visitor routes. limit guards every mutation.
func (u *userHandlers) register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.GET("/folders", u.folders)
	rg.POST("/folder/create", limit, u.createFolder)
	rg.POST("/folder/delete", limit, u.deleteFolder)
	rg.POST("/folder/rename", limit, u.renameFolder)
	rg.POST("/folder/reorder", limit, u.reorderFolders)

	rg.GET("/favorites", u.favorites)
	rg.GET("/favorites/all", u.allFavorites)
	rg.POST("/favorite/add", limit, u.addFavorite)
	rg.POST("/favorite/remove", limit, u.removeFavorite)
	rg.POST("/favorite/move", limit, u.moveFavorite)
	rg.GET("/favorite/check", u.checkFavorite)
	rg.POST("/favorite/reorder", limit, u.reorderFavorites)

	rg.GET("/memo", u.memo)
	rg.POST("/memo/save", limit, u.saveMemo)
	rg.POST("/memo/delete", limit, u.deleteMemo)
	rg.GET("/memos/all", u.allMemos)
}

// -----------------------------------------------------------------------------
// Response helpers
// -----------------------------------------------------------------------------

func (u *userHandlers) fail(c *gin.Context, err error) {
	u.logger.Error("visitor %s: %s %s: %v", visitorKey(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to access user data"})
}

func (u *userHandlers) result(c *gin.Context, ok bool, err error) {
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

// -----------------------------------------------------------------------------
// Folders
// -----------------------------------------------------------------------------

func (u *userHandlers) folders(c *gin.Context) {
	folders, err := u.visitors.Folders(visitorKey(c))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (u *userHandlers) createFolder(c *gin.Context) {
	var body folderCreateRequest
	if !bind(c, &body) {
		return
	}
	folder, err := u.visitors.CreateFolder(visitorKey(c), *body.Name)
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "folder": folder})
}

func (u *userHandlers) deleteFolder(c *gin.Context) {
	var body folderDeleteRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.DeleteFolder(visitorKey(c), *body.FolderID)
	u.result(c, ok, err)
}

func (u *userHandlers) renameFolder(c *gin.Context) {
	var body folderRenameRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.RenameFolder(visitorKey(c), *body.FolderID, *body.NewName)
	u.result(c, ok, err)
}

func (u *userHandlers) reorderFolders(c *gin.Context) {
	var body folderReorderRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.ReorderFolders(visitorKey(c), body.FolderIDs)
	u.result(c, ok, err)
}

// -----------------------------------------------------------------------------
// Favorites
// -----------------------------------------------------------------------------

func (u *userHandlers) favorites(c *gin.Context) {
	favs, err := u.visitors.Favorites(visitorKey(c), c.DefaultQuery("folder_id", models.DefaultFolderID))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (u *userHandlers) allFavorites(c *gin.Context) {
	favs, err := u.visitors.AllFavorites(visitorKey(c))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (u *userHandlers) addFavorite(c *gin.Context) {
	var body favoriteAddRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.AddFavorite(visitorKey(c), *body.FolderID, *body.Code, *body.Name, marketOrDefault(body.Market))
	u.result(c, ok, err)
}

func (u *userHandlers) removeFavorite(c *gin.Context) {
	var body favoriteRemoveRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.RemoveFavorite(visitorKey(c), *body.FolderID, *body.Code, marketOrDefault(body.Market))
	u.result(c, ok, err)
}

func (u *userHandlers) moveFavorite(c *gin.Context) {
	var body favoriteMoveRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.MoveFavorite(visitorKey(c), *body.Code, *body.FromFolder, *body.ToFolder, marketOrDefault(body.Market))
	u.result(c, ok, err)
}

func (u *userHandlers) checkFavorite(c *gin.Context) {
	code, ok := requireQuery(c, "code")
	if !ok {
		return
	}
	status, err := u.visitors.FavoriteStatus(visitorKey(c), code, marketOrDefault(c.Query("market")))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (u *userHandlers) reorderFavorites(c *gin.Context) {
	var body favoriteReorderRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.ReorderFavorites(visitorKey(c), *body.FolderID, body.FavoriteKeys)
	u.result(c, ok, err)
}

// -----------------------------------------------------------------------------
// Memos
// -----------------------------------------------------------------------------

func (u *userHandlers) memo(c *gin.Context) {
	code, ok := requireQuery(c, "code")
	if !ok {
		return
	}
	memo, err := u.visitors.Memo(visitorKey(c), code, marketOrDefault(c.Query("market")))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memo": memo})
}

func (u *userHandlers) saveMemo(c *gin.Context) {
	var body memoSaveRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.SetMemo(visitorKey(c), *body.Code, body.Memo, marketOrDefault(body.Market))
	u.result(c, ok, err)
}

func (u *userHandlers) deleteMemo(c *gin.Context) {
	var body memoDeleteRequest
	if !bind(c, &body) {
		return
	}
	ok, err := u.visitors.DeleteMemo(visitorKey(c), *body.Code, marketOrDefault(body.Market))
	u.result(c, ok, err)
}

func (u *userHandlers) allMemos(c *gin.Context) {
	memos, err := u.visitors.AllMemos(visitorKey(c))
	if err != nil {
		u.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, memos)
}
