package api

import (
	"net/http"

	reqdto "storefront-backend/internal/handler/dto/request"
	resdto "storefront-backend/internal/handler/dto/response"
	"storefront-backend/internal/notify"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the in-process order feed to the admin panel.
// All state lives in the engine; handlers are thin accessors.
type NotificationHandler struct {
	engine *notify.Engine
}

func NewNotificationHandler(engine *notify.Engine) *NotificationHandler {
	return &NotificationHandler{
		engine: engine,
	}
}

func (h *NotificationHandler) GetFeed(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.NotificationFeedResponse{
		Notifications: h.engine.Feed(),
		UnreadCount:   h.engine.UnreadCount(),
		SoundEnabled:  h.engine.SoundEnabled(),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if !h.engine.MarkRead(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Notification not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": h.engine.UnreadCount(),
	})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	h.engine.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{
		"unread_count": 0,
	})
}

func (h *NotificationHandler) ClearAll(c *gin.Context) {
	h.engine.ClearAll()
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) SetSound(c *gin.Context) {
	var req reqdto.NotificationSoundRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	h.engine.SetSoundEnabled(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{
		"sound_enabled": h.engine.SoundEnabled(),
	})
}
