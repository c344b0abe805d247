package response

import (
	"storefront-backend/internal/notify"
)

type NotificationFeedResponse struct {
	Notifications []notify.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
	SoundEnabled  bool                  `json:"sound_enabled"`
}
