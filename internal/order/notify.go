package order

import (
	"context"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier announces a freshly written order to whoever watches for them.
// Delivery is best-effort: no retry, no backoff, nothing propagated to the
// customer. The operator dashboard reads the orders collection directly, so
// a lost notification only delays a human, never an order.
type Notifier interface {
	Notify(ctx context.Context, o *order.Order)
}

// RelayNotifier posts a flat order summary to an external form/email relay.
type RelayNotifier struct {
	client *resty.Client
	url    string
}

func NewRelayNotifier(relayURL string, timeout time.Duration) *RelayNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayNotifier{
		client: resty.New().SetTimeout(timeout),
		url:    relayURL,
	}
}

func (n *RelayNotifier) Notify(ctx context.Context, o *order.Order) {
	if n.url == "" {
		logger.Log.Info("new order",
			zap.String("orderId", o.OrderID),
			zap.String("game", o.GameName),
			zap.String("customer", o.CustomerName),
			zap.Int("price", o.Price),
		)
		return
	}

	payload := map[string]any{
		"eventId":       uuid.NewString(),
		"orderId":       o.OrderID,
		"gameName":      o.GameName,
		"gameUserId":    o.GameUserID,
		"gameUsername":  o.GameUsername,
		"price":         o.Price,
		"customerName":  o.CustomerName,
		"customerEmail": o.CustomerEmail,
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		logger.Log.Warn("order notification failed",
			zap.String("orderId", o.OrderID), zap.Error(err))
		return
	}
	logger.Log.Info("order notification sent",
		zap.String("orderId", o.OrderID), zap.Int("status", resp.StatusCode()))
}
