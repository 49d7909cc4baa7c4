package pricing

import (
	"context"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	repo *Repo
}

func NewService(db *gorm.DB, repo *Repo) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) Tiers(ctx context.Context, productID uint64) ([]Tier, error) {
	tiers, err := s.repo.ListByProduct(ctx, productID)
	return tiers, common.DBErr(err, "pricing tiers")
}

// Select returns the tier whose bracket contains qty, or nil.
func Select(tiers []Tier, qty int) *Tier {
	for i := range tiers {
		if tiers[i].Contains(qty) {
			return &tiers[i]
		}
	}
	return nil
}

// PriceForQuantity returns the per-unit price for qty, falling back to basePrice when
// no bracket matches.
func (s *Service) PriceForQuantity(ctx context.Context, productID uint64, basePrice int64, qty int) (int64, error) {
	if qty < 1 {
		return 0, common.Validation("quantity must be >= 1")
	}
	tiers, err := s.Tiers(ctx, productID)
	if err != nil {
		return 0, err
	}
	if t := Select(tiers, qty); t != nil {
		return t.Price, nil
	}
	return basePrice, nil
}

// AddTier inserts t after checking it against the product's existing brackets.
func (s *Service) AddTier(ctx context.Context, t *Tier) error {
	if t.MinQuantity < 1 {
		return common.Validation("min quantity must be >= 1")
	}
	if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
		return common.Validation("max quantity must be >= min quantity")
	}
	if t.Price < 0 {
		return common.Validation("price must be >= 0")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.LockByProduct(ctx, t.ProductID)
		if err != nil {
			return common.Unavailable(err)
		}
		for _, e := range existing {
			if e.Overlaps(*t) {
				return common.Validation("bracket overlaps existing tier %d", e.ID)
			}
		}
		if err := repo.Create(ctx, t); err != nil {
			return common.Unavailable(err)
		}
		return nil
	})
}

func (s *Service) DeleteTier(ctx context.Context, productID, tierID uint64) error {
	n, err := s.repo.Delete(ctx, productID, tierID)
	if err != nil {
		return common.Unavailable(err)
	}
	if n == 0 {
		return common.NotFound("pricing tier")
	}
	return nil
}
