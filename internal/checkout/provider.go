package checkout

import "context"

// LineItem is one priced line sent to the payment provider.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

type SessionRequest struct {
	OrderID    uint64
	UserID     uint64
	Email      string
	Currency   string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string
	URL string
}

// Event is a verified provider callback reduced to what the order flow needs.
type Event struct {
	Type      string
	SessionID string
}

const (
	EventSessionCompleted = "checkout.session.completed"
	EventSessionExpired   = "checkout.session.expired"
)

// PaymentProvider creates hosted checkout sessions and verifies webhooks.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
