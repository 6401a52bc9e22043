package handler

import (
	"net/http"
	"strconv"

	"oqunet/internal/middleware"
	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

type BorrowReq struct {
	BookID uint64 `json:"book_id" binding:"required"`
}

type AssignReq struct {
	BookID uint64 `json:"book_id" binding:"required"`
	UserID uint64 `json:"user_id" binding:"required"`
}

type AddBookReq struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ImageURL        string  `json:"image_url"`
	Genre           string  `json:"genre"`
	CommunityID     uint64  `json:"community_id" binding:"required"`
	BorrowDays      int     `json:"borrow_days"`
	InitialHolderID *uint64 `json:"initial_holder_id"`
}

func (h *BookHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	books, err := h.svc.List(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *BookHandler) ListByCommunity(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	communityID, _ := strconv.ParseUint(c.Param("communityId"), 10, 64)

	books, err := h.svc.ListByCommunity(actor, communityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *BookHandler) Borrow(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req BorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	book, err := h.svc.Borrow(actor, req.BookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "the book is yours", "book": book})
}

func (h *BookHandler) ReturnMyBook(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req BorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	book, err := h.svc.ReturnMyBook(actor, req.BookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book returned", "book": book})
}

func (h *BookHandler) Assign(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req AssignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	book, err := h.svc.Assign(actor, req.BookID, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book assigned", "book": book})
}

func (h *BookHandler) AdminReturn(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req BorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	book, err := h.svc.AdminReturn(actor, req.BookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book released", "book": book})
}

func (h *BookHandler) Add(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req AddBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	book, err := h.svc.Add(actor, service.AddBookParams{
		Title:           req.Title,
		Author:          req.Author,
		ImageURL:        req.ImageURL,
		Genre:           req.Genre,
		CommunityID:     req.CommunityID,
		BorrowDays:      req.BorrowDays,
		InitialHolderID: req.InitialHolderID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book added", "book": book})
}

func (h *BookHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	bookID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(actor, bookID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}

func (h *BookHandler) History(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	bookID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	history, err := h.svc.History(actor, bookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
