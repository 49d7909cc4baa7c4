package catalog

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

// ListProducts returns active products, newest first. limit <= 0 means no limit.
func (r *Repo) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	var out []Product
	if err := r.db.WithContext(ctx).
		Where("active = ? AND featured = ?", true, true).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListByCategory(ctx context.Context, categoryID uint64) ([]Product, error) {
	var out []Product
	if err := r.db.WithContext(ctx).
		Where("active = ? AND category_id = ?", true, categoryID).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id uint64) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]Product, error) {
	out := make(map[uint64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("slug = ?", slug).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *Repo) SKUExists(ctx context.Context, sku string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("sku = ?", sku).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := r.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetCategory(ctx context.Context, id uint64) (*Category, error) {
	var c Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetGradeByCode(ctx context.Context, code string) (*ConditionGrade, error) {
	var g ConditionGrade
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repo) ListCertifications(ctx context.Context) ([]Certification, error) {
	var out []Certification
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListProductCertifications(ctx context.Context, productID uint64) ([]Certification, error) {
	var out []Certification
	if err := r.db.WithContext(ctx).
		Joins("JOIN product_certifications pc ON pc.certification_id = certifications.id").
		Where("pc.product_id = ?", productID).
		Order("certifications.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
