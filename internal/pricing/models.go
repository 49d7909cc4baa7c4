package pricing

import "time"

// Tier is a quantity bracket [MinQuantity, MaxQuantity]. A nil MaxQuantity is unbounded.
type Tier struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint64    `gorm:"index;not null" json:"product_id"`
	MinQuantity int       `gorm:"not null" json:"min_quantity"`
	MaxQuantity *int      `json:"max_quantity"`
	Price       int64     `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Tier) TableName() string { return "pricing_tiers" }

func (t Tier) Contains(qty int) bool {
	if qty < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || qty <= *t.MaxQuantity
}

// Overlaps reports whether the two brackets share at least one quantity.
func (t Tier) Overlaps(o Tier) bool {
	// [a1,a2] and [b1,b2] overlap iff a1 <= b2 && b1 <= a2, with nil = +inf
	if t.MaxQuantity != nil && o.MinQuantity > *t.MaxQuantity {
		return false
	}
	if o.MaxQuantity != nil && t.MinQuantity > *o.MaxQuantity {
		return false
	}
	return true
}
