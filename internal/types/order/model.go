package order

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable snapshot taken at purchase time. Status is the only
// field changed afterwards, and only by an operator, never by this service.
type Order struct {
	OrderID       string      `json:"orderId"`
	CustomerID    string      `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	GameName      string      `json:"gameName"`
	GameUserID    string      `json:"gameUserId"`
	GameUsername  string      `json:"gameUsername"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Price         int         `json:"price"`
	Status        OrderStatus `json:"status"`
	Timestamp     int64       `json:"timestamp"`
}
