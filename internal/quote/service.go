package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/order"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
	"gorm.io/gorm"
)

// Notifier is told about quotes that have just been sent to the buyer.
// Implementations must not block the caller on delivery.
type Notifier interface {
	QuoteSent(ctx context.Context, q *Quote, inq *rfq.Inquiry)
}

// Actor is the authenticated caller of a quote operation.
type Actor struct {
	UserID uint64
	Admin  bool
}

const (
	defaultValidDays = 30
	sweepBatch       = 200
	systemActor      = 0
)

var errAlreadyConverted = errors.New("quote already converted")

type Service struct {
	db        *gorm.DB
	repo      *Repo
	inquiries *rfq.Repo
	orders    *order.Repo
	notifier  Notifier
	validDays int
	now       func() time.Time
}

func NewService(db *gorm.DB, repo *Repo, inquiries *rfq.Repo, orders *order.Repo, notifier Notifier, validDays int) *Service {
	if validDays <= 0 {
		validDays = defaultValidDays
	}
	return &Service{
		db:        db,
		repo:      repo,
		inquiries: inquiries,
		orders:    orders,
		notifier:  notifier,
		validDays: validDays,
		now:       time.Now,
	}
}

type ItemInput struct {
	ProductID uint64          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice int64           `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Notes     string          `json:"notes"`
}

type CreateInput struct {
	InquiryID uint64      `json:"rfq_inquiry_id" binding:"required"`
	Items     []ItemInput `json:"items" binding:"required"`
	ValidDays int         `json:"valid_days"`
	Currency  string      `json:"currency"`
	Notes     string      `json:"notes"`
	Terms     string      `json:"terms"`
}

func (in CreateInput) validate() error {
	if len(in.Items) == 0 {
		return common.Validation("at least one item is required")
	}
	if in.ValidDays < 0 {
		return common.Validation("valid_days must be >= 1")
	}
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return common.Validation("item %d: quantity must be >= 1", i)
		}
		if it.UnitPrice < 0 {
			return common.Validation("item %d: unit_price must be >= 0", i)
		}
		if it.Discount.IsNegative() || it.Discount.GreaterThan(hundred) {
			return common.Validation("item %d: discount must be between 0 and 100", i)
		}
		if !it.Discount.Equal(it.Discount.Round(2)) {
			return common.Validation("item %d: discount allows at most 2 decimal places", i)
		}
	}
	return nil
}

// Create builds a draft quote for an inquiry. Quote, items and the
// "created" history entry are written in one transaction.
func (s *Service) Create(ctx context.Context, createdBy uint64, in CreateInput) (*Quote, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.inquiries.Get(ctx, in.InquiryID); err != nil {
		return nil, common.DBErr(err, "inquiry")
	}

	days := in.ValidDays
	if days == 0 {
		days = s.validDays
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	q := &Quote{
		RfqInquiryID: in.InquiryID,
		QuoteNumber:  "QT-" + id,
		Status:       StatusDraft,
		Currency:     currency,
		ValidUntil:   s.now().UTC().AddDate(0, 0, days),
		Notes:        in.Notes,
		Terms:        in.Terms,
		CreatedBy:    createdBy,
	}
	for _, it := range in.Items {
		line := Item{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Discount:   it.Discount,
			TotalPrice: LineTotal(it.UnitPrice, it.Quantity, it.Discount),
			Notes:      it.Notes,
		}
		q.TotalAmount += line.TotalPrice
		q.Items = append(q.Items, line)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, q); err != nil {
			return err
		}
		return repo.AddHistory(ctx, &History{
			QuoteID:   q.ID,
			Action:    "created",
			ChangedBy: createdBy,
			Notes:     fmt.Sprintf("quote %s created", q.QuoteNumber),
		})
	})
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return q, nil
}

// Get loads a quote with its items, expiring it first if its validity
// window has passed.
func (s *Service) Get(ctx context.Context, id uint64) (*Quote, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, common.DBErr(err, "quote")
	}
	if err := s.expireIfLapsed(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetFor is Get restricted to what actor may see. Buyers see quotes on
// their own inquiries once they have left draft.
func (s *Service) GetFor(ctx context.Context, actor Actor, id uint64) (*Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Admin {
		return q, nil
	}
	inq, err := s.inquiries.Get(ctx, q.RfqInquiryID)
	if err != nil {
		return nil, common.DBErr(err, "inquiry")
	}
	if inq.UserID != actor.UserID || q.Status == StatusDraft {
		return nil, common.NotFound("quote")
	}
	return q, nil
}

func (s *Service) History(ctx context.Context, id uint64) ([]History, error) {
	out, err := s.repo.History(ctx, id)
	return out, common.DBErr(err, "quote history")
}

// ListByInquiry returns all quotes of an inquiry, newest first.
func (s *Service) ListByInquiry(ctx context.Context, inquiryID uint64) ([]Quote, error) {
	out, err := s.repo.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, common.DBErr(err, "quotes")
	}
	for i := range out {
		if err := s.expireIfLapsed(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ActiveForInquiry returns the newest quote of an inquiry that is neither rejected
// nor expired. Drafts are skipped unless includeDrafts is set.
func (s *Service) ActiveForInquiry(ctx context.Context, inquiryID uint64, includeDrafts bool) (*Quote, error) {
	all, err := s.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		switch all[i].Status {
		case StatusRejected, StatusExpired:
			continue
		case StatusDraft:
			if !includeDrafts {
				continue
			}
		}
		return s.Get(ctx, all[i].ID)
	}
	return nil, common.NotFound("quote")
}

// UpdateStatus applies a single transition. Admins may drive any legal
// transition; buyers may only accept or reject quotes on their own
// inquiries.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uint64, to Status, notes string) (*Quote, error) {
	if !to.Valid() {
		return nil, common.Validation("unknown status %q", to)
	}
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inq, err := s.inquiries.Get(ctx, q.RfqInquiryID)
	if err != nil {
		return nil, common.DBErr(err, "inquiry")
	}
	if !actor.Admin {
		if inq.UserID != actor.UserID || q.Status == StatusDraft {
			return nil, common.NotFound("quote")
		}
		if to != StatusAccepted && to != StatusRejected {
			return nil, common.Forbidden("buyers may only accept or reject a quote")
		}
	}
	if !CanTransition(q.Status, to) {
		return nil, common.Validation("cannot move quote from %s to %s", q.Status, to)
	}
	if to == StatusExpired && q.ConvertedOrderID != nil {
		return nil, common.Validation("converted quotes cannot expire")
	}

	from := q.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).Transition(ctx, q.ID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return common.Conflict("quote status changed concurrently")
		}
		if err := s.repo.WithTx(tx).AddHistory(ctx, &History{
			QuoteID:   q.ID,
			Action:    string(to),
			ChangedBy: actor.UserID,
			Notes:     notes,
		}); err != nil {
			return err
		}
		return s.syncInquiry(ctx, s.inquiries.WithTx(tx), inq, q, to)
	})
	if err != nil {
		return nil, common.DBErr(err, "quote")
	}
	q.Status = to

	if to == StatusSent && s.notifier != nil {
		s.notifier.QuoteSent(ctx, q, inq)
	}
	log.Printf("[Quote] %s %s -> %s by user=%d", q.QuoteNumber, from, to, actor.UserID)
	return q, nil
}

func (s *Service) syncInquiry(ctx context.Context, repo *rfq.Repo, inq *rfq.Inquiry, q *Quote, to Status) error {
	switch to {
	case StatusSent:
		price := q.TotalAmount
		return repo.SetStatus(ctx, inq.ID, rfq.StatusQuoted, &price)
	case StatusAccepted:
		return repo.SetStatus(ctx, inq.ID, rfq.StatusAccepted, nil)
	case StatusRejected:
		return repo.SetStatus(ctx, inq.ID, rfq.StatusRejected, nil)
	}
	return nil
}

// Convert turns an accepted quote into a pending order for the inquiry's
// buyer. Repeated calls return the order created by the first one;
// created reports whether this call made it.
func (s *Service) Convert(ctx context.Context, actor Actor, id uint64) (o *order.Order, created bool, err error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	inq, err := s.inquiries.Get(ctx, q.RfqInquiryID)
	if err != nil {
		return nil, false, common.DBErr(err, "inquiry")
	}
	if !actor.Admin && (inq.UserID != actor.UserID || q.Status == StatusDraft) {
		return nil, false, common.NotFound("quote")
	}
	if q.ConvertedOrderID != nil {
		return s.existingOrder(ctx, q.ID)
	}
	if q.Status != StatusAccepted {
		return nil, false, common.Validation("only accepted quotes can be converted, quote is %s", q.Status)
	}

	o = &order.Order{
		UserID:        inq.UserID,
		QuoteID:       &q.ID,
		Status:        order.StatusPending,
		TotalAmount:   q.TotalAmount,
		Currency:      q.Currency,
		CustomerEmail: inq.Email,
		CustomerName:  inq.ContactName,
		Notes:         "Converted from quote " + q.QuoteNumber,
	}
	for _, it := range q.Items {
		o.Items = append(o.Items, order.Item{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Discount:   order.LineTotal(it.UnitPrice, it.Quantity) - it.TotalPrice,
			TotalPrice: it.TotalPrice,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, o); err != nil {
			return err
		}
		ok, err := s.repo.WithTx(tx).MarkConverted(ctx, q.ID, o.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyConverted
		}
		return s.repo.WithTx(tx).AddHistory(ctx, &History{
			QuoteID:   q.ID,
			Action:    "converted",
			ChangedBy: actor.UserID,
			Notes:     "order " + o.Number(),
		})
	})
	if err != nil {
		// a concurrent conversion either won the CAS or the unique quote_id
		if existing, _, lookupErr := s.existingOrder(ctx, q.ID); lookupErr == nil {
			return existing, false, nil
		}
		if errors.Is(err, errAlreadyConverted) {
			return nil, false, common.Conflict("quote is no longer convertible")
		}
		return nil, false, common.Unavailable(err)
	}
	log.Printf("[Quote] %s converted to %s", q.QuoteNumber, o.Number())
	return o, true, nil
}

func (s *Service) existingOrder(ctx context.Context, quoteID uint64) (*order.Order, bool, error) {
	o, err := s.orders.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, false, common.DBErr(err, "order")
	}
	return o, false, nil
}

// ExpireDue expires every draft/sent quote whose validity ended before now
// and returns how many were changed.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	total := 0
	for {
		due, err := s.repo.ListLapsed(ctx, now, sweepBatch)
		if err != nil {
			return total, common.Unavailable(err)
		}
		changed := 0
		for i := range due {
			ok, err := s.expire(ctx, &due[i], systemActor, "validity window elapsed")
			if err != nil {
				return total, err
			}
			if ok {
				changed++
			}
		}
		total += changed
		if len(due) < sweepBatch || changed == 0 {
			return total, nil
		}
	}
}

func (s *Service) expireIfLapsed(ctx context.Context, q *Quote) error {
	if !expiresByTime(q.Status) || !s.now().After(q.ValidUntil) {
		return nil
	}
	if _, err := s.expire(ctx, q, systemActor, "validity window elapsed"); err != nil {
		return err
	}
	if q.Status != StatusExpired {
		// lost a race with another transition; reload the winner
		fresh, err := s.repo.Get(ctx, q.ID)
		if err != nil {
			return common.DBErr(err, "quote")
		}
		*q = *fresh
	}
	return nil
}

func (s *Service) expire(ctx context.Context, q *Quote, actor uint64, notes string) (bool, error) {
	from := q.Status
	var changed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).Transition(ctx, q.ID, from, StatusExpired)
		if err != nil || !ok {
			return err
		}
		changed = true
		return s.repo.WithTx(tx).AddHistory(ctx, &History{
			QuoteID:   q.ID,
			Action:    string(StatusExpired),
			ChangedBy: actor,
			Notes:     notes,
		})
	})
	if err != nil {
		return false, common.Unavailable(err)
	}
	if changed {
		q.Status = StatusExpired
		log.Printf("[Quote] %s expired (was %s)", q.QuoteNumber, from)
	}
	return changed, nil
}
