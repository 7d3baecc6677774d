package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// setupFrontend serves a built single page app from frontend_dir: real files
// as they are, every other non-API path as index.html. Without a build the
// root path reports the server status instead.
func (s *APIServer) setupFrontend() {
	dir := s.Config.FrontendDir
	index := filepath.Join(dir, "index.html")
	if dir == "" || !isFile(index) {
		if dir != "" {
			s.Logger.Warning("Frontend build not found in %s", dir)
		}
		s.engine.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "running",
				"message": "Stock API Server",
				"endpoints": gin.H{
					"kr":   "/api/kr/",
					"us":   "/api/us/",
					"user": "/api/user/",
				},
			})
		})
		s.engine.NoRoute(notFound)
		return
	}

	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			notFound(c)
			return
		}
		// Clean against "/" first so the result cannot leave dir
		rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+path)), "/"))
		if rel != "" {
			if candidate := filepath.Join(dir, rel); isFile(candidate) {
				c.File(candidate)
				return
			}
		}
		c.File(index)
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
