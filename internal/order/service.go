package order

import (
	"context"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	repo *Repo
}

func NewService(db *gorm.DB, repo *Repo) *Service {
	return &Service{db: db, repo: repo}
}

// LineTotal is unit price times quantity in minor units.
func LineTotal(unitPrice int64, qty int) int64 {
	return unitPrice * int64(qty)
}

// CreatePending validates the lines, derives line and order totals and stores
// order + items atomically.
func (s *Service) CreatePending(ctx context.Context, o *Order) error {
	if len(o.Items) == 0 {
		return common.Validation("at least one item is required")
	}
	var total int64
	for i := range o.Items {
		it := &o.Items[i]
		if it.Quantity < 1 {
			return common.Validation("item %d: quantity must be >= 1", i)
		}
		if it.UnitPrice < 0 {
			return common.Validation("item %d: unit price must be >= 0", i)
		}
		gross := LineTotal(it.UnitPrice, it.Quantity)
		if it.Discount < 0 || it.Discount > gross {
			return common.Validation("item %d: discount must be between 0 and the line price", i)
		}
		it.TotalPrice = gross - it.Discount
		total += it.TotalPrice
	}
	o.TotalAmount = total
	o.Status = StatusPending
	if o.Currency == "" {
		o.Currency = "USD"
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, o)
	})
	if err != nil {
		return common.Unavailable(err)
	}
	return nil
}

// Get returns the order with items if it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, orderID uint64) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, common.DBErr(err, "order")
	}
	if o.UserID != userID {
		// hide existence
		return nil, common.NotFound("order")
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]Order, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	return out, common.DBErr(err, "orders")
}

func (s *Service) AttachSession(ctx context.Context, orderID uint64, sessionID string) error {
	if err := s.repo.SetSessionID(ctx, orderID, sessionID); err != nil {
		return common.Unavailable(err)
	}
	return nil
}

func (s *Service) MarkFailed(ctx context.Context, orderID uint64) error {
	if _, err := s.repo.Transition(ctx, orderID, StatusPending, StatusFailed); err != nil {
		return common.Unavailable(err)
	}
	return nil
}

// SettleSession moves the pending order that owns sessionID to status.
// changed is false when the order was already settled.
func (s *Service) SettleSession(ctx context.Context, sessionID string, status Status) (o *Order, changed bool, err error) {
	o, err = s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, false, common.DBErr(err, "order")
	}
	changed, err = s.repo.Transition(ctx, o.ID, StatusPending, status)
	if err != nil {
		return nil, false, common.Unavailable(err)
	}
	if changed {
		o.Status = status
	}
	return o, changed, nil
}
