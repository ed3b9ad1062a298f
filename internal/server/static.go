package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the frontend from the configured directory.
func (s *Server) mountStatic() {
	indexPath := filepath.Join(s.staticDir, "index.html")

	s.engine.GET("/", func(c *gin.Context) {
		if s.staticDir != "" {
			if _, err := os.Stat(indexPath); err == nil {
				c.File(indexPath)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Frontend not found. Make sure frontend/index.html exists."})
	})

	if s.staticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(s.staticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", s.staticDir, "error", err)
		return
	}

	s.engine.StaticFS("/static", gin.Dir(s.staticDir, false))

	favicon := filepath.Join(s.staticDir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
}
