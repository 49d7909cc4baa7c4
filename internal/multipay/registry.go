package multipay

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request amounts are in cents.
type Request struct {
	OrderID       string
	Amount        int64
	Currency      string
	CustomerEmail string
}

type Payload struct {
	OrderID       string            `json:"order_id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Method        Method            `json:"method"`
	Gateway       string            `json:"gateway"`
	CustomerEmail string            `json:"customer_email"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
}

// Initializer prepares a payment with one gateway.
type Initializer interface {
	Initialize(ctx context.Context, req Request) (*Payload, error)
}

type InitializerFactory func(g Gateway) (Initializer, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[Method]InitializerFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Method]InitializerFactory)}
}

func (r *Registry) Register(m Method, f InitializerFactory) {
	m = Method(strings.ToLower(strings.TrimSpace(string(m))))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[m] = f
}

func (r *Registry) Get(m Method) (Initializer, error) {
	g, ok := Gateways[m]
	if !ok {
		return nil, fmt.Errorf("unknown payment gateway: %s", m)
	}
	r.mu.RLock()
	f, ok := r.factories[m]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("payment gateway not registered: %s", m)
	}
	return f(g)
}

// DefaultRegistry registers the payload builder for every known gateway.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for m := range Gateways {
		r.Register(m, func(g Gateway) (Initializer, error) {
			return payloadBuilder{gateway: g}, nil
		})
	}
	return r
}

// payloadBuilder produces the initialization payload without calling out to
// the gateway.
type payloadBuilder struct {
	gateway Gateway
}

func (p payloadBuilder) Initialize(_ context.Context, req Request) (*Payload, error) {
	return &Payload{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        p.gateway.Name,
		Gateway:       string(p.gateway.Name),
		CustomerEmail: req.CustomerEmail,
		Description:   "B2B Wholesale Order #" + req.OrderID,
		Metadata: map[string]string{
			"order_type": "wholesale",
			"platform":   "b2b_wholesale",
		},
	}, nil
}
