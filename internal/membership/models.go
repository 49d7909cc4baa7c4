package membership

import "time"

type Tier struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Level              int       `gorm:"uniqueIndex;not null" json:"level"`
	Description        string    `gorm:"type:text" json:"description"`
	Color              string    `gorm:"type:varchar(16)" json:"color"`
	DiscountPercentage int       `gorm:"not null;default:0" json:"discount_percentage"`
	MinAnnualPurchase  int64     `gorm:"not null;default:0" json:"min_annual_purchase"`
	AdditionalBenefits string    `gorm:"type:text" json:"additional_benefits"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Tier) TableName() string { return "membership_tiers" }

// UserMembership is unique per user.
type UserMembership struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	TierID               uint64    `gorm:"index;not null" json:"tier_id"`
	AnnualPurchaseAmount int64     `gorm:"not null;default:0" json:"annual_purchase_amount"`
	StartedAt            time.Time `json:"started_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Tier                 *Tier     `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

func (UserMembership) TableName() string { return "user_memberships" }

// Discount binds a tier to an optional product or category. Exactly one of
// DiscountPercentage and FixedAmount is set.
type Discount struct {
	ID                 uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TierID             uint64     `gorm:"index;not null" json:"tier_id"`
	ProductID          *uint64    `gorm:"index" json:"product_id"`
	CategoryID         *uint64    `gorm:"index" json:"category_id"`
	DiscountPercentage *int       `json:"discount_percentage"`
	FixedAmount        *int64     `json:"fixed_amount"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidTo            *time.Time `json:"valid_to"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (Discount) TableName() string { return "membership_discounts" }

func (d Discount) specificity() int {
	switch {
	case d.ProductID != nil:
		return 0
	case d.CategoryID != nil:
		return 1
	default:
		return 2
	}
}

func (d Discount) activeAt(now time.Time) bool {
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return false
	}
	return true
}

// Apply returns price after the discount, never below zero.
func (d Discount) Apply(price int64) int64 {
	switch {
	case d.DiscountPercentage != nil:
		return price * int64(100-*d.DiscountPercentage) / 100
	case d.FixedAmount != nil:
		if *d.FixedAmount >= price {
			return 0
		}
		return price - *d.FixedAmount
	}
	return price
}

// DiscountedPrice applies d to price. A nil discount leaves price unchanged.
func DiscountedPrice(price int64, d *Discount) int64 {
	if d == nil {
		return price
	}
	return d.Apply(price)
}
