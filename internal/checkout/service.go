package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/suPer8Hu/wholesale-platform/internal/cart"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"github.com/suPer8Hu/wholesale-platform/internal/order"
)

// PurchaseRecorder credits completed spend towards membership tiers.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, userID uint64, amount int64) (*membership.UserMembership, error)
}

// LinePricer prices a product line for a buyer from catalog, tier and
// membership data.
type LinePricer interface {
	PriceLine(ctx context.Context, userID, productID uint64, qty int) (*cart.LineTotal, error)
}

type Customer struct {
	ID    uint64
	Email string
	Name  string
}

// ItemInput is a requested line. Name and UnitPrice are only used when the
// service has no LinePricer.
type ItemInput struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type Input struct {
	Items           []ItemInput `json:"items" binding:"required"`
	ShippingAddress string      `json:"shipping_address"`
	Notes           string      `json:"notes"`
}

type Result struct {
	OrderID   uint64 `json:"order_id"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type Service struct {
	orders    *order.Service
	provider  PaymentProvider
	pricer    LinePricer
	purchases PurchaseRecorder
	currency  string
}

func NewService(orders *order.Service, provider PaymentProvider, pricer LinePricer, purchases PurchaseRecorder, currency string) *Service {
	return &Service{orders: orders, provider: provider, pricer: pricer, purchases: purchases, currency: strings.ToUpper(currency)}
}

// CreateCheckoutSession stores a pending order and opens a hosted payment
// session for it. A provider failure leaves the order failed.
func (s *Service) CreateCheckoutSession(ctx context.Context, c Customer, in Input, origin string) (*Result, error) {
	if len(in.Items) == 0 {
		return nil, common.Validation("at least one item is required")
	}
	o := &order.Order{
		UserID:          c.ID,
		Currency:        s.currency,
		CustomerEmail:   c.Email,
		CustomerName:    c.Name,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}
	names := make([]string, 0, len(in.Items))
	for i, it := range in.Items {
		line := order.Item{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		name := strings.TrimSpace(it.Name)
		if s.pricer != nil {
			if it.Quantity < 1 {
				return nil, common.Validation("item %d: quantity must be >= 1", i)
			}
			priced, err := s.pricer.PriceLine(ctx, c.ID, it.ProductID, it.Quantity)
			if err != nil {
				return nil, err
			}
			line.UnitPrice = priced.UnitPrice
			line.Discount = priced.Discount
			name = priced.Name
		}
		if name == "" {
			name = fmt.Sprintf("Product #%d", it.ProductID)
		}
		o.Items = append(o.Items, line)
		names = append(names, name)
	}
	if err := s.orders.CreatePending(ctx, o); err != nil {
		return nil, err
	}
	return s.openSession(ctx, c, o, names, origin)
}

// PayOrder opens a payment session for an existing pending order, such as
// one converted from a quote.
func (s *Service) PayOrder(ctx context.Context, c Customer, orderID uint64, origin string) (*Result, error) {
	o, err := s.orders.Get(ctx, c.ID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPending {
		return nil, common.Validation("order is %s", o.Status)
	}
	names := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		names = append(names, fmt.Sprintf("Product #%d", it.ProductID))
	}
	return s.openSession(ctx, c, o, names, origin)
}

func (s *Service) openSession(ctx context.Context, c Customer, o *order.Order, names []string, origin string) (*Result, error) {
	origin = strings.TrimRight(origin, "/")
	req := SessionRequest{
		OrderID:    o.ID,
		UserID:     c.ID,
		Email:      c.Email,
		Currency:   o.Currency,
		SuccessURL: fmt.Sprintf("%s/orders/%d?status=success", origin, o.ID),
		CancelURL:  origin + "/checkout?status=cancelled",
	}
	for i, it := range o.Items {
		req.Items = append(req.Items, providerLine(names[i], it))
	}

	sess, err := s.provider.CreateSession(ctx, req)
	if err != nil {
		log.Printf("[Checkout] create session order=%d failed: %v", o.ID, err)
		if markErr := s.orders.MarkFailed(ctx, o.ID); markErr != nil {
			log.Printf("[Checkout] mark order=%d failed: %v", o.ID, markErr)
		}
		return nil, common.Provider("payment provider", err)
	}
	if err := s.orders.AttachSession(ctx, o.ID, sess.ID); err != nil {
		return nil, err
	}
	return &Result{OrderID: o.ID, SessionID: sess.ID, URL: sess.URL}, nil
}

// providerLine bills exactly the stored line total. A discounted line that
// does not split evenly per unit is sent as a single line.
func providerLine(name string, it order.Item) LineItem {
	if it.TotalPrice == order.LineTotal(it.UnitPrice, it.Quantity) {
		return LineItem{Name: name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	if it.TotalPrice%int64(it.Quantity) == 0 {
		return LineItem{Name: name, Quantity: it.Quantity, UnitPrice: it.TotalPrice / int64(it.Quantity)}
	}
	return LineItem{Name: fmt.Sprintf("%s x %d", name, it.Quantity), Quantity: 1, UnitPrice: it.TotalPrice}
}

// HandleWebhook verifies and applies a provider callback. Redelivered
// events are no-ops.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return common.Validation("invalid webhook: %v", err)
	}

	switch ev.Type {
	case EventSessionCompleted:
		o, changed, err := s.orders.SettleSession(ctx, ev.SessionID, order.StatusCompleted)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		log.Printf("[Checkout] %s completed session=%s", o.Number(), ev.SessionID)
		if s.purchases != nil {
			if _, err := s.purchases.RecordPurchase(ctx, o.UserID, o.TotalAmount); err != nil {
				log.Printf("[Checkout] record purchase %s failed: %v", o.Number(), err)
			}
		}
	case EventSessionExpired:
		o, changed, err := s.orders.SettleSession(ctx, ev.SessionID, order.StatusCancelled)
		if err != nil {
			return err
		}
		if changed {
			log.Printf("[Checkout] %s cancelled, session expired", o.Number())
		}
	default:
		log.Printf("[Checkout] ignoring webhook event %s", ev.Type)
	}
	return nil
}

func (s *Service) GetOrderDetails(ctx context.Context, userID, orderID uint64) (*order.Order, error) {
	return s.orders.Get(ctx, userID, orderID)
}

func (s *Service) GetUserOrders(ctx context.Context, userID uint64) ([]order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
