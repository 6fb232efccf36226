package storage

import (
	"context"

	"github.com/bishalghimire/merotopup-backend/internal/types/game"
	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"github.com/bishalghimire/merotopup-backend/internal/types/user"
)

// UserRepository owns user records and their denormalized stats.
type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	FindUserByID(ctx context.Context, userID string) (*user.User, error)
	PatchUserStats(ctx context.Context, userID string, totalOrders, totalSpent int) error
}

// OrderRepository owns order records and the sequence allocator.
type OrderRepository interface {
	PutOrder(ctx context.Context, o *order.Order) error
	ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error)
	NextOrderSeq(ctx context.Context) (int64, error)
}

// GameRepository serves the top-up catalog.
type GameRepository interface {
	Games(ctx context.Context) (map[string]game.Game, error)
}

// Storage bundles every repository.
type Storage interface {
	UserRepository
	OrderRepository
	GameRepository

	Ping(ctx context.Context) error
}
