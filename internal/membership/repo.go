package membership

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

func (r *Repo) ListTiers(ctx context.Context) ([]Tier, error) {
	var out []Tier
	if err := r.db.WithContext(ctx).Order("level ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetTier(ctx context.Context, id uint64) (*Tier, error) {
	var t Tier
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) CreateTier(ctx context.Context, t *Tier) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) GetMembership(ctx context.Context, userID uint64) (*UserMembership, error) {
	var m UserMembership
	if err := r.db.WithContext(ctx).
		Preload("Tier").
		Where("user_id = ?", userID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) CreateMembership(ctx context.Context, m *UserMembership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repo) SetTier(ctx context.Context, userID, tierID uint64) error {
	return r.db.WithContext(ctx).Model(&UserMembership{}).
		Where("user_id = ?", userID).
		Update("tier_id", tierID).Error
}

func (r *Repo) AddPurchase(ctx context.Context, userID uint64, amount int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&UserMembership{}).
		Where("user_id = ?", userID).
		Update("annual_purchase_amount", gorm.Expr("annual_purchase_amount + ?", amount))
	return res.RowsAffected, res.Error
}

// CandidateDiscounts returns rows for the tier that match productID/categoryID
// or are wildcards on those columns. Validity windows are checked by the caller.
func (r *Repo) CandidateDiscounts(ctx context.Context, tierID, productID, categoryID uint64) ([]Discount, error) {
	var out []Discount
	if err := r.db.WithContext(ctx).
		Where("tier_id = ?", tierID).
		Where("(product_id = ? OR product_id IS NULL)", productID).
		Where("(category_id = ? OR category_id IS NULL)", categoryID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CreateDiscount(ctx context.Context, d *Discount) error {
	return r.db.WithContext(ctx).Create(d).Error
}
