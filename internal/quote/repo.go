package quote

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

// Create inserts q together with q.Items.
func (r *Repo) Create(ctx context.Context, q *Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Quote, error) {
	var q Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repo) ListByInquiry(ctx context.Context, inquiryID uint64) ([]Quote, error) {
	var out []Quote
	if err := r.db.WithContext(ctx).
		Where("rfq_inquiry_id = ?", inquiryID).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListLapsed returns draft/sent quotes whose validity ended before now.
func (r *Repo) ListLapsed(ctx context.Context, now time.Time, limit int) ([]Quote, error) {
	var out []Quote
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND valid_until < ?", []Status{StatusDraft, StatusSent}, now).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Transition is a compare-and-set on the status column.
func (r *Repo) Transition(ctx context.Context, id uint64, from, to Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Quote{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

// MarkConverted links the quote to orderID unless it is already linked.
func (r *Repo) MarkConverted(ctx context.Context, id, orderID uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Quote{}).
		Where("id = ? AND status = ? AND converted_order_id IS NULL", id, StatusAccepted).
		Update("converted_order_id", orderID)
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) AddHistory(ctx context.Context, h *History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *Repo) History(ctx context.Context, quoteID uint64) ([]History, error) {
	var out []History
	if err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
