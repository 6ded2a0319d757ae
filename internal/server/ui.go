package server

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed ui/index.html
var uiFS embed.FS

func (s *Server) handleIndex(c *gin.Context) {
	data, err := uiFS.ReadFile("ui/index.html")
	if err != nil {
		s.logger.Printf("load ui index: %v", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "ui unavailable", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
