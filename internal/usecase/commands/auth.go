package commands

import (
	"context"

	"github.com/google/uuid"

	reqdto "storefront-backend/internal/handler/dto/request"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/pkg/jwt"
	"storefront-backend/internal/pkg/password"
)

type LoginResult struct {
	AdminID uuid.UUID
	Email   string
	Token   string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	adminRepo  AdminRepository
	jwtService *jwt.Service
}

func NewAuthCommands(adminRepo AdminRepository, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		adminRepo:  adminRepo,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	admin, err := a.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same error as a password mismatch to prevent account enumeration.
		return nil, errs.ErrInvalidCredentials
	}

	if err := password.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTokenGeneration)
	}

	return &LoginResult{
		AdminID: admin.ID,
		Email:   admin.Email,
		Token:   token,
	}, nil
}
