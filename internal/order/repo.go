package order

import (
	"context"

	"github.com/bishalghimire/merotopup-backend/internal/types/order"
)

type OrderRepository interface {
	NextOrderSeq(ctx context.Context) (int64, error)
	PutOrder(ctx context.Context, o *order.Order) error
	ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error)
	PatchUserStats(ctx context.Context, userID string, totalOrders, totalSpent int) error
}
