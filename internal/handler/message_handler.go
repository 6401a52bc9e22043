package handler

import (
	"net/http"
	"strconv"

	"oqunet/internal/middleware"
	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageReq struct {
	ToUserID    uint64 `json:"to_user_id" binding:"required"`
	BookID      uint64 `json:"book_id" binding:"required"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
}

func (h *MessageHandler) MyMessages(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	messages, err := h.svc.MyMessages(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	messageID, _ := strconv.ParseUint(c.Param("messageId"), 10, 64)

	if err := h.svc.MarkAsRead(actor, messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	count, err := h.svc.UnreadCount(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *MessageHandler) Send(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	msg, err := h.svc.Send(actor, service.SendMessageParams{
		ToUserID:    req.ToUserID,
		BookID:      req.BookID,
		MessageType: req.MessageType,
		Content:     req.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sent", "data": msg})
}
