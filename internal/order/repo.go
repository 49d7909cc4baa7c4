package order

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

// Create inserts o together with o.Items.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) GetByQuoteID(ctx context.Context, quoteID uint64) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Preload("Items").Where("quote_id = ?", quoteID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) GetBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID uint64) ([]Order, error) {
	var out []Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) SetSessionID(ctx context.Context, id uint64, sessionID string) error {
	return r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Update("stripe_session_id", sessionID).Error
}

// Transition moves the order to `to` only if it is currently in `from`.
func (r *Repo) Transition(ctx context.Context, id uint64, from, to Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}
