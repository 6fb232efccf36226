package user

import (
	"context"

	"github.com/bishalghimire/merotopup-backend/internal/types/user"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	FindUserByID(ctx context.Context, userID string) (*user.User, error)
}
