package handler

import (
	"net/http"

	"oqunet/internal/middleware"
	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

func (h *SearchHandler) Books(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	books, err := h.svc.Books(actor, c.Query("query"), c.Query("genre"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (h *SearchHandler) Users(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	users, err := h.svc.Users(actor, c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SearchHandler) Genres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": h.svc.GenreList()})
}
