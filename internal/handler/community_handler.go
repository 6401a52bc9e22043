package handler

import (
	"net/http"
	"strconv"

	"oqunet/internal/middleware"
	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AccessCode  string `json:"access_code"`
}

type JoinReq struct {
	AccessCode string `json:"access_code"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	community, user, err := h.svc.Create(actor, req.Name, req.AccessCode, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "community created, you joined automatically",
		"community": community,
		"user":      user,
	})
}

func (h *CommunityHandler) Add(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	community, err := h.svc.Add(actor, req.Name, req.AccessCode, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "community added", "community": community})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(actor, communityID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "community deleted"})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req JoinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	user, err := h.svc.Join(actor, req.AccessCode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "welcome to the community", "user": user})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	user, err := h.svc.Leave(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "you left the community", "user": user})
}

func (h *CommunityHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	communities, err := h.svc.List(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

func (h *CommunityHandler) ListPublic(c *gin.Context) {
	communities, err := h.svc.ListPublic()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

func (h *CommunityHandler) Members(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	communityID, _ := strconv.ParseUint(c.Param("communityId"), 10, 64)

	members, err := h.svc.Members(actor, communityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	communityID, _ := strconv.ParseUint(c.Param("communityId"), 10, 64)
	userID, _ := strconv.ParseUint(c.Param("userId"), 10, 64)

	if err := h.svc.RemoveMember(actor, communityID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
