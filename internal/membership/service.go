package membership

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	repo *Repo
	now  func() time.Time
}

func NewService(db *gorm.DB, repo *Repo) *Service {
	return &Service{db: db, repo: repo, now: time.Now}
}

func (s *Service) Tiers(ctx context.Context) ([]Tier, error) {
	tiers, err := s.repo.ListTiers(ctx)
	return tiers, common.DBErr(err, "membership tiers")
}

// UserMembership returns the user's membership with its tier, or nil when the
// user has none.
func (s *Service) UserMembership(ctx context.Context, userID uint64) (*UserMembership, error) {
	m, err := s.repo.GetMembership(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return m, nil
}

// ApplicableDiscount resolves the single discount row for the user on the
// given product. Product-specific rows win over category rows, which win over
// wildcards; ties go to the newest row. A user without membership gets nil.
func (s *Service) ApplicableDiscount(ctx context.Context, userID, productID, categoryID uint64) (*Discount, error) {
	m, err := s.UserMembership(ctx, userID)
	if err != nil || m == nil {
		return nil, err
	}
	rows, err := s.repo.CandidateDiscounts(ctx, m.TierID, productID, categoryID)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return pickDiscount(rows, s.now()), nil
}

func pickDiscount(rows []Discount, now time.Time) *Discount {
	active := rows[:0:0]
	for _, d := range rows {
		if d.activeAt(now) {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.specificity() != b.specificity() {
			return a.specificity() < b.specificity()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	d := active[0]
	return &d
}

type UpgradeStatus struct {
	Eligible       bool  `json:"eligible"`
	Current        *Tier `json:"current"`
	Target         *Tier `json:"target,omitempty"`
	Next           *Tier `json:"next,omitempty"`
	AnnualPurchase int64 `json:"annual_purchase"`
	Remaining      int64 `json:"remaining"`
}

// CheckUpgrade compares the user's annual purchase amount against the tier
// thresholds.
func (s *Service) CheckUpgrade(ctx context.Context, userID uint64) (*UpgradeStatus, error) {
	tiers, err := s.Tiers(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.UserMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := &UpgradeStatus{}
	currentLevel := -1 << 31
	if m != nil {
		st.Current = m.Tier
		st.AnnualPurchase = m.AnnualPurchaseAmount
		if m.Tier != nil {
			currentLevel = m.Tier.Level
		}
	}
	if best := bestTier(tiers, st.AnnualPurchase); best != nil && best.Level > currentLevel {
		st.Eligible = true
		st.Target = best
	}
	for i := range tiers {
		if tiers[i].Level > currentLevel && tiers[i].MinAnnualPurchase > st.AnnualPurchase {
			st.Next = &tiers[i]
			st.Remaining = tiers[i].MinAnnualPurchase - st.AnnualPurchase
			break
		}
	}
	return st, nil
}

// bestTier expects tiers ordered by level ascending.
func bestTier(tiers []Tier, amount int64) *Tier {
	var best *Tier
	for i := range tiers {
		if tiers[i].MinAnnualPurchase <= amount {
			best = &tiers[i]
		}
	}
	return best
}

// RecordPurchase adds a completed order amount to the user's annual total,
// creating the entry-level membership when missing and moving the user to the
// highest tier the new total qualifies for.
func (s *Service) RecordPurchase(ctx context.Context, userID uint64, amount int64) (*UserMembership, error) {
	if amount < 0 {
		return nil, common.Validation("amount must be >= 0")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		tiers, err := repo.ListTiers(ctx)
		if err != nil {
			return common.Unavailable(err)
		}
		if len(tiers) == 0 {
			return nil
		}
		n, err := repo.AddPurchase(ctx, userID, amount)
		if err != nil {
			return common.Unavailable(err)
		}
		if n == 0 {
			if err := repo.CreateMembership(ctx, &UserMembership{
				UserID:               userID,
				TierID:               tiers[0].ID,
				AnnualPurchaseAmount: amount,
				StartedAt:            s.now(),
			}); err != nil {
				return common.Unavailable(err)
			}
		}
		m, err := repo.GetMembership(ctx, userID)
		if err != nil {
			return common.Unavailable(err)
		}
		best := bestTier(tiers, m.AnnualPurchaseAmount)
		if best != nil && m.Tier != nil && best.Level > m.Tier.Level {
			if err := repo.SetTier(ctx, userID, best.ID); err != nil {
				return common.Unavailable(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.UserMembership(ctx, userID)
}

// AssignTier sets the user's tier, creating the membership if needed.
func (s *Service) AssignTier(ctx context.Context, userID, tierID uint64) (*UserMembership, error) {
	if _, err := s.repo.GetTier(ctx, tierID); err != nil {
		return nil, common.DBErr(err, "membership tier")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.GetMembership(ctx, userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return repo.CreateMembership(ctx, &UserMembership{UserID: userID, TierID: tierID, StartedAt: s.now()})
		case err != nil:
			return err
		}
		return repo.SetTier(ctx, userID, tierID)
	})
	if err != nil {
		return nil, common.DBErr(err, "membership")
	}
	return s.UserMembership(ctx, userID)
}

func (s *Service) CreateTier(ctx context.Context, t *Tier) error {
	if t.Name == "" {
		return common.Validation("name is required")
	}
	if t.DiscountPercentage < 0 || t.DiscountPercentage > 100 {
		return common.Validation("discount percentage must be within 0..100")
	}
	if err := s.repo.CreateTier(ctx, t); err != nil {
		return common.Unavailable(err)
	}
	return nil
}

func (s *Service) CreateDiscount(ctx context.Context, d *Discount) error {
	switch {
	case (d.DiscountPercentage == nil) == (d.FixedAmount == nil):
		return common.Validation("exactly one of discount percentage and fixed amount is required")
	case d.DiscountPercentage != nil && (*d.DiscountPercentage < 0 || *d.DiscountPercentage > 100):
		return common.Validation("discount percentage must be within 0..100")
	case d.FixedAmount != nil && *d.FixedAmount < 0:
		return common.Validation("fixed amount must be >= 0")
	case d.ValidFrom != nil && d.ValidTo != nil && d.ValidTo.Before(*d.ValidFrom):
		return common.Validation("valid_to must not precede valid_from")
	}
	if _, err := s.repo.GetTier(ctx, d.TierID); err != nil {
		return common.DBErr(err, "membership tier")
	}
	if err := s.repo.CreateDiscount(ctx, d); err != nil {
		return common.Unavailable(err)
	}
	return nil
}
