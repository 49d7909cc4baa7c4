package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

// Cache is the read-through cache used for catalog listings.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	cachePrefix   = "catalog:"
	featuredLimit = 6
)

type Service struct {
	repo  *Repo
	cache Cache
	ttl   time.Duration
}

// NewService builds the catalog service. cache may be nil.
func NewService(repo *Repo, cache Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

func (s *Service) cached(ctx context.Context, key string, dst any, load func() error) error {
	key = cachePrefix + key
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, key, dst)
		if err != nil {
			log.Printf("[Catalog] cache get failed key=%s err=%v", key, err)
		} else if hit {
			return nil
		}
	}
	if err := load(); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, dst, s.ttl); err != nil {
			log.Printf("[Catalog] cache set failed key=%s err=%v", key, err)
		}
	}
	return nil
}

// Invalidate drops every cached catalog listing.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Printf("[Catalog] cache invalidate failed err=%v", err)
	}
}

func (s *Service) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	var out []Product
	err := s.cached(ctx, fmt.Sprintf("products:%d", limit), &out, func() (err error) {
		out, err = s.repo.ListProducts(ctx, limit)
		return common.DBErr(err, "products")
	})
	return out, err
}

func (s *Service) Featured(ctx context.Context) ([]Product, error) {
	var out []Product
	err := s.cached(ctx, "featured", &out, func() (err error) {
		out, err = s.repo.ListFeatured(ctx, featuredLimit)
		return common.DBErr(err, "products")
	})
	return out, err
}

func (s *Service) ByCategory(ctx context.Context, categoryID uint64) ([]Product, error) {
	var out []Product
	err := s.cached(ctx, fmt.Sprintf("category:%d", categoryID), &out, func() (err error) {
		out, err = s.repo.ListByCategory(ctx, categoryID)
		return common.DBErr(err, "products")
	})
	return out, err
}

func (s *Service) BySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, common.DBErr(err, "product")
	}
	return p, nil
}

func (s *Service) Product(ctx context.Context, id uint64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.DBErr(err, "product")
	}
	return p, nil
}

func (s *Service) ProductExists(ctx context.Context, id uint64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ProductsByID(ctx context.Context, ids []uint64) (map[uint64]Product, error) {
	m, err := s.repo.GetByIDs(ctx, ids)
	return m, common.DBErr(err, "products")
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := s.cached(ctx, "categories", &out, func() (err error) {
		out, err = s.repo.ListCategories(ctx)
		return common.DBErr(err, "categories")
	})
	return out, err
}

func (s *Service) Category(ctx context.Context, id uint64) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, common.DBErr(err, "category")
	}
	return c, nil
}

func (s *Service) Certifications(ctx context.Context) ([]Certification, error) {
	var out []Certification
	err := s.cached(ctx, "certifications", &out, func() (err error) {
		out, err = s.repo.ListCertifications(ctx)
		return common.DBErr(err, "certifications")
	})
	return out, err
}

func (s *Service) ProductCertifications(ctx context.Context, productID uint64) ([]Certification, error) {
	out, err := s.repo.ListProductCertifications(ctx, productID)
	return out, common.DBErr(err, "certifications")
}

func (s *Service) GradeByCode(ctx context.Context, code string) (*ConditionGrade, error) {
	g, err := s.repo.GetGradeByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, common.DBErr(err, "condition grade")
	}
	return g, nil
}

// CreateProduct validates and inserts p. An empty slug is derived from the name.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	switch {
	case p.Name == "":
		return common.Validation("name is required")
	case p.SKU == "":
		return common.Validation("sku is required")
	case p.BasePrice < 0:
		return common.Validation("base price must be >= 0")
	case p.Stock < 0:
		return common.Validation("stock must be >= 0")
	}
	if p.MOQ <= 0 {
		p.MOQ = 1
	}
	if _, err := s.Category(ctx, p.CategoryID); err != nil {
		return err
	}
	dup, err := s.repo.SKUExists(ctx, p.SKU)
	if err != nil {
		return common.Unavailable(err)
	}
	if dup {
		return common.Conflict("sku " + p.SKU + " already exists")
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
		taken, err := s.repo.SlugExists(ctx, p.Slug)
		if err != nil {
			return common.Unavailable(err)
		}
		if taken {
			p.Slug = fmt.Sprintf("%s-%d", p.Slug, time.Now().UnixMilli())
		}
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return common.Unavailable(err)
	}
	s.Invalidate(ctx)
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return common.Validation("name is required")
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return common.Unavailable(err)
	}
	s.Invalidate(ctx)
	return nil
}
