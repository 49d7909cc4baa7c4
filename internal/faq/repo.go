package faq

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repo) GetCategory(ctx context.Context, id uint64) (*Category, error) {
	var c Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ItemsByCategory(ctx context.Context, categoryID uint64) ([]Item, error) {
	var out []Item
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("display_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repo) GetItem(ctx context.Context, id uint64) (*Item, error) {
	var it Item
	if err := r.db.WithContext(ctx).First(&it, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// Search matches q as a substring of question or answer. LIKE wildcards in q
// are matched literally.
func (r *Repo) Search(ctx context.Context, q string, limit int) ([]Item, error) {
	esc := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(q)
	pattern := "%" + esc + "%"
	var out []Item
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(question LIKE ? ESCAPE '!' OR answer LIKE ? ESCAPE '!')", pattern, pattern).
		Order("helpful_count DESC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Increment adds one to a counter column in a single statement.
func (r *Repo) Increment(ctx context.Context, id uint64, column string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Item{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) CreateItem(ctx context.Context, it *Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}
