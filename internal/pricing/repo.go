package pricing

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repo) ListByProduct(ctx context.Context, productID uint64) ([]Tier, error) {
	var out []Tier
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("min_quantity ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockByProduct reads the product's tiers FOR UPDATE, taking the index range
// so a concurrent insert for the same product waits.
func (r *Repo) LockByProduct(ctx context.Context, productID uint64) ([]Tier, error) {
	var out []Tier
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("min_quantity ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, t *Tier) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) Delete(ctx context.Context, productID, tierID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", tierID, productID).Delete(&Tier{})
	return res.RowsAffected, res.Error
}
