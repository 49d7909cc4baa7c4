package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Quote amounts are minor currency units.
type Quote struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RfqInquiryID     uint64    `gorm:"index;not null" json:"rfq_inquiry_id"`
	QuoteNumber      string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"quote_number"`
	Status           Status    `gorm:"type:varchar(16);index;not null" json:"status"`
	TotalAmount      int64     `gorm:"not null" json:"total_amount"`
	Currency         string    `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	ValidUntil       time.Time `gorm:"index;not null" json:"valid_until"`
	Notes            string    `gorm:"type:text" json:"notes"`
	Terms            string    `gorm:"type:text" json:"terms"`
	CreatedBy        uint64    `gorm:"not null" json:"created_by"`
	ConvertedOrderID *uint64   `gorm:"uniqueIndex" json:"converted_order_id,omitempty"`
	Items            []Item    `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

type Item struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	QuoteID    uint64          `gorm:"index;not null" json:"quote_id"`
	ProductID  uint64          `gorm:"index;not null" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  int64           `gorm:"not null" json:"unit_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount"`
	TotalPrice int64           `gorm:"not null" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes"`
}

func (Item) TableName() string { return "quote_items" }

// History rows are append-only.
type History struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	QuoteID   uint64    `gorm:"index;not null" json:"quote_id"`
	Action    string    `gorm:"type:varchar(32);not null" json:"action"`
	ChangedBy uint64    `gorm:"not null" json:"changed_by"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (History) TableName() string { return "quote_history" }

var hundred = decimal.NewFromInt(100)

// LineTotal is round(unitPrice × qty × (1 − discount/100)), half away from zero.
func LineTotal(unitPrice int64, qty int, discount decimal.Decimal) int64 {
	gross := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(qty)))
	return gross.Mul(hundred.Sub(discount)).Div(hundred).Round(0).IntPart()
}
