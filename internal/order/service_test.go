package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	nextOrderSeqFn     func(ctx context.Context) (int64, error)
	putOrderFn         func(ctx context.Context, o *order.Order) error
	listOrdersByUserFn func(ctx context.Context, userID string) ([]order.Order, error)
	patchUserStatsFn   func(ctx context.Context, userID string, totalOrders, totalSpent int) error
}

func (m *mockRepo) NextOrderSeq(ctx context.Context) (int64, error) {
	return m.nextOrderSeqFn(ctx)
}
func (m *mockRepo) PutOrder(ctx context.Context, o *order.Order) error {
	return m.putOrderFn(ctx, o)
}
func (m *mockRepo) ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return m.listOrdersByUserFn(ctx, userID)
}
func (m *mockRepo) PatchUserStats(ctx context.Context, userID string, totalOrders, totalSpent int) error {
	return m.patchUserStatsFn(ctx, userID, totalOrders, totalSpent)
}

type inlineTasks struct{}

func (inlineTasks) Dispatch(job Job) bool {
	job(context.Background())
	return true
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
}

func (n *recordingNotifier) Notify(_ context.Context, o *order.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o.OrderID)
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "MT-00001", DisplayID(1))
	assert.Equal(t, "MT-00042", DisplayID(42))
	assert.Equal(t, "MT-123456", DisplayID(123456))
}

func TestCreateOrderHappyPath(t *testing.T) {
	var written *order.Order
	var patched bool
	repo := &mockRepo{
		nextOrderSeqFn: func(ctx context.Context) (int64, error) { return 1, nil },
		putOrderFn: func(ctx context.Context, o *order.Order) error {
			written = o
			return nil
		},
		listOrdersByUserFn: func(ctx context.Context, userID string) ([]order.Order, error) {
			return []order.Order{{CustomerID: userID, Price: 500}}, nil
		},
		patchUserStatsFn: func(ctx context.Context, userID string, totalOrders, totalSpent int) error {
			patched = true
			assert.Equal(t, "u1", userID)
			assert.Equal(t, 1, totalOrders)
			assert.Equal(t, 500, totalSpent)
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewService(repo, inlineTasks{}, notifier)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:   "u1",
		CustomerName: "Customer One",
		GameName:     "Free Fire",
		GameUserID:   "12345",
		Price:        500,
	})
	require.NoError(t, err)
	assert.Equal(t, "MT-00001", o.OrderID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.NotZero(t, o.Timestamp)
	assert.Same(t, written, o)
	assert.True(t, patched)
	assert.Equal(t, []string{"MT-00001"}, notifier.orders)
}

func TestCreateOrderAllocatorFailureStopsWorkflow(t *testing.T) {
	repo := &mockRepo{
		nextOrderSeqFn: func(ctx context.Context) (int64, error) {
			return 0, errors.New("store unavailable")
		},
		putOrderFn: func(ctx context.Context, o *order.Order) error {
			t.Fatal("must not write without an allocated id")
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewService(repo, inlineTasks{}, notifier)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: "u1", GameName: "Free Fire", Price: 100,
	})
	assert.Error(t, err)
	assert.Empty(t, notifier.orders)
}

func TestCreateOrderWriteFailureSurfacesAndSkipsSideEffects(t *testing.T) {
	repo := &mockRepo{
		nextOrderSeqFn: func(ctx context.Context) (int64, error) { return 7, nil },
		putOrderFn: func(ctx context.Context, o *order.Order) error {
			return errors.New("store unavailable")
		},
		listOrdersByUserFn: func(ctx context.Context, userID string) ([]order.Order, error) {
			t.Fatal("stats must not sync for an unwritten order")
			return nil, nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewService(repo, inlineTasks{}, notifier)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: "u1", GameName: "Free Fire", Price: 100,
	})
	assert.Error(t, err)
	assert.Empty(t, notifier.orders)
}

func TestCreateOrderStatsSyncFailureDoesNotFailOrder(t *testing.T) {
	repo := &mockRepo{
		nextOrderSeqFn: func(ctx context.Context) (int64, error) { return 2, nil },
		putOrderFn:     func(ctx context.Context, o *order.Order) error { return nil },
		listOrdersByUserFn: func(ctx context.Context, userID string) ([]order.Order, error) {
			return nil, errors.New("store unavailable")
		},
	}
	notifier := &recordingNotifier{}
	svc := NewService(repo, inlineTasks{}, notifier)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: "u1", GameName: "Free Fire", Price: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "MT-00002", o.OrderID)
	// The order still gets announced.
	assert.Equal(t, []string{"MT-00002"}, notifier.orders)
}

func TestCreateOrderGuestSkipsStatsSync(t *testing.T) {
	repo := &mockRepo{
		nextOrderSeqFn: func(ctx context.Context) (int64, error) { return 3, nil },
		putOrderFn:     func(ctx context.Context, o *order.Order) error { return nil },
		listOrdersByUserFn: func(ctx context.Context, userID string) ([]order.Order, error) {
			t.Fatal("no customer, nothing to sync")
			return nil, nil
		},
	}
	svc := NewService(repo, inlineTasks{}, &recordingNotifier{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		GameName: "Free Fire", Price: 100,
	})
	assert.NoError(t, err)
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	svc := NewService(&mockRepo{}, inlineTasks{}, &recordingNotifier{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{GameName: "", Price: 100})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{GameName: "Free Fire", Price: 0})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSyncUserStatsRecomputesFromOrders(t *testing.T) {
	var gotOrders, gotSpent int
	repo := &mockRepo{
		listOrdersByUserFn: func(ctx context.Context, userID string) ([]order.Order, error) {
			return []order.Order{{Price: 100}, {Price: 300}, {Price: 500}}, nil
		},
		patchUserStatsFn: func(ctx context.Context, userID string, totalOrders, totalSpent int) error {
			gotOrders, gotSpent = totalOrders, totalSpent
			return nil
		},
	}
	svc := NewService(repo, inlineTasks{}, &recordingNotifier{})

	require.NoError(t, svc.SyncUserStats(context.Background(), "u1"))
	assert.Equal(t, 3, gotOrders)
	assert.Equal(t, 900, gotSpent)
}
