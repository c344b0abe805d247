package response

import (
	"github.com/google/uuid"

	"storefront-backend/internal/usecase/commands"
)

type LoginResponse struct {
	Token   string    `json:"token"`
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
}

func FromLoginResult(result *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:   result.Token,
		AdminID: result.AdminID,
		Email:   result.Email,
	}
}
