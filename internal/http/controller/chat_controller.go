package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/price-monitor/internal/conversation"
)

// Conversation turns one chat message into replies.
type Conversation interface {
	Handle(ctx context.Context, msg conversation.Message) []conversation.Reply
}

// ChatController is a webhook entry point into the chat flows for gateways that call us directly.
type ChatController struct {
	conversation Conversation
}

func NewChatController(conv Conversation) *ChatController {
	return &ChatController{conversation: conv}
}

type ChatMessageRequest struct {
	ChatID    int64  `json:"chat_id" binding:"required"`
	UserID    int64  `json:"user_id" binding:"required"`
	FirstName string `json:"first_name"`
	Text      string `json:"text" binding:"required"`
}

// HandleMessage handles POST /chat/messages and responds with the replies to deliver.
func (cc *ChatController) HandleMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replies := cc.conversation.Handle(c.Request.Context(), conversation.Message{
		ChatID:    req.ChatID,
		UserID:    req.UserID,
		FirstName: req.FirstName,
		Text:      req.Text,
	})
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}
