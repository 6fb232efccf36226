package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"go.uber.org/zap"
)

var ErrMissingFields = errors.New("order missing required fields")

const displayPrefix = "MT"

// DisplayID turns a counter value into the human-facing order identifier.
// The fixed width keeps operator lists aligned and the number itself tells
// roughly how many orders the shop has seen.
func DisplayID(seq int64) string {
	return fmt.Sprintf("%s-%05d", displayPrefix, seq)
}

type CreateOrderInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	GameName      string
	GameUserID    string
	GameUsername  string
	PaymentMethod string
	Price         int
}

type Service struct {
	repo     OrderRepository
	tasks    Dispatcher
	notifier Notifier
}

func NewService(repo OrderRepository, tasks Dispatcher, notifier Notifier) *Service {
	return &Service{repo: repo, tasks: tasks, notifier: notifier}
}

// CreateOrder runs the full workflow: allocate a sequence number, persist the
// order, then hand stats resync and the operator notification to the
// background dispatcher. Only the persistence step can fail the call; once
// the order document is written it is the source of truth and everything
// after it is allowed to lag or be lost.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*order.Order, error) {
	if in.GameName == "" || in.Price <= 0 {
		return nil, ErrMissingFields
	}

	seq, err := s.repo.NextOrderSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate order id: %w", err)
	}

	o := &order.Order{
		OrderID:       DisplayID(seq),
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		GameName:      in.GameName,
		GameUserID:    in.GameUserID,
		GameUsername:  in.GameUsername,
		PaymentMethod: in.PaymentMethod,
		Price:         in.Price,
		Status:        order.StatusPending,
		Timestamp:     time.Now().UnixMilli(),
	}

	// A failure here leaves the allocated number consumed with no order
	// behind it. Gaps in the sequence are fine; reusing a number is not.
	if err := s.repo.PutOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("write order %s: %w", o.OrderID, err)
	}

	if o.CustomerID != "" {
		customerID := o.CustomerID
		s.tasks.Dispatch(func(ctx context.Context) {
			if err := s.SyncUserStats(ctx, customerID); err != nil {
				logger.Log.Warn("stats sync failed, will heal on next order",
					zap.String("userId", customerID), zap.Error(err))
			}
		})
	}
	snapshot := *o
	s.tasks.Dispatch(func(ctx context.Context) {
		s.notifier.Notify(ctx, &snapshot)
	})

	return o, nil
}

// SyncUserStats recomputes the denormalized aggregates from the orders
// collection. Recompute, never increment: against a store with last-write-wins
// semantics an increment that lands twice or not at all drifts forever,
// a recomputation is wrong only until the next successful run.
func (s *Service) SyncUserStats(ctx context.Context, userID string) error {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("sync stats for %s: %w", userID, err)
	}
	spent := 0
	for _, o := range orders {
		spent += o.Price
	}
	if err := s.repo.PatchUserStats(ctx, userID, len(orders), spent); err != nil {
		return fmt.Errorf("sync stats for %s: %w", userID, err)
	}
	return nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}
