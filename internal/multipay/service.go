package multipay

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

type Service struct {
	registry *Registry
}

func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

type InitInput struct {
	OrderID  string `json:"order_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
	Method   string `json:"method" binding:"required"`
}

type InitResult struct {
	PaymentID string   `json:"payment_id"`
	Payload   *Payload `json:"payload"`
}

func (s *Service) Initialize(ctx context.Context, email string, in InitInput) (*InitResult, error) {
	g, err := LookupGateway(in.Method)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.OrderID) == "" {
		return nil, common.Validation("order id is required")
	}
	if err := g.Validate(in.Amount); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if !g.supports(currency) {
		return nil, common.Validation("currency %s is not supported by %s", currency, g.Name)
	}

	init, err := s.registry.Get(g.Name)
	if err != nil {
		return nil, common.Provider(string(g.Name), err)
	}
	payload, err := init.Initialize(ctx, Request{
		OrderID:       in.OrderID,
		Amount:        in.Amount,
		Currency:      currency,
		CustomerEmail: email,
	})
	if err != nil {
		return nil, common.Provider(string(g.Name), err)
	}

	id := "pay_" + uuid.NewString()
	log.Printf("[Payment] initialized payment_id=%s order=%s method=%s amount=%d %s",
		id, in.OrderID, g.Name, in.Amount, currency)
	return &InitResult{PaymentID: id, Payload: payload}, nil
}
