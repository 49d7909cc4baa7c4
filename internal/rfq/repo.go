package rfq

import (
	"context"

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

func (r *Repo) Create(ctx context.Context, in *Inquiry) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Inquiry, error) {
	var in Inquiry
	if err := r.db.WithContext(ctx).First(&in, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID uint64) ([]Inquiry, error) {
	var out []Inquiry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListByStatus(ctx context.Context, status Status, limit int) ([]Inquiry, error) {
	q := r.db.WithContext(ctx).Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Inquiry
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus updates status and, when quotedPrice is non-nil, the quoted price.
func (r *Repo) SetStatus(ctx context.Context, id uint64, status Status, quotedPrice *int64) error {
	updates := map[string]any{"status": status}
	if quotedPrice != nil {
		updates["quoted_price"] = *quotedPrice
	}
	return r.db.WithContext(ctx).Model(&Inquiry{}).Where("id = ?", id).Updates(updates).Error
}
