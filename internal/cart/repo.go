package cart

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

func (r *Repo) List(ctx context.Context, userID uint64) ([]Item, error) {
	var out []Item
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Item, error) {
	var it Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) GetByProduct(ctx context.Context, userID, productID uint64) (*Item, error) {
	var it Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Add inserts the row or, when the user already has the product, adds qty to
// the existing quantity in the same statement.
func (r *Repo) Add(ctx context.Context, it *Item) error {
	updates := map[string]any{
		"quantity":   gorm.Expr("quantity + ?", it.Quantity),
		"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if it.SelectedMOQ != nil {
		updates["selected_moq"] = *it.SelectedMOQ
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(it).Error
}

func (r *Repo) SetQuantity(ctx context.Context, id, userID uint64, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Item{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", qty)
	return res.RowsAffected, res.Error
}

func (r *Repo) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Item{})
	return res.RowsAffected, res.Error
}

func (r *Repo) Clear(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Item{})
	return res.RowsAffected, res.Error
}
