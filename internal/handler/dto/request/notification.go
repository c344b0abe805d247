package request

type NotificationSoundRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
