package cart

import (
	"time"

	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
)

// Item is one product row in a buyer's cart. A product appears at most once
// per user.
type Item struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"not null;uniqueIndex:idx_cart_user_product,priority:1" json:"user_id"`
	ProductID   uint64    `gorm:"not null;uniqueIndex:idx_cart_user_product,priority:2" json:"product_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	SelectedMOQ *int      `gorm:"column:selected_moq" json:"selected_moq,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "cart_items" }

type Line struct {
	Item
	Product *catalog.Product `json:"product"`
}

// LineTotal amounts are in cents.
type LineTotal struct {
	ItemID    uint64 `json:"item_id"`
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Gross     int64  `json:"gross"`
	Discount  int64  `json:"discount"`
	Total     int64  `json:"total"`
}

type Summary struct {
	Lines     []LineTotal `json:"lines"`
	ItemCount int         `json:"item_count"`
	Subtotal  int64       `json:"subtotal"`
	Discount  int64       `json:"discount"`
	Total     int64       `json:"total"`
}
