package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

type Order struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64    `gorm:"index;not null" json:"user_id"`
	QuoteID         *uint64   `gorm:"uniqueIndex" json:"quote_id,omitempty"`
	Status          Status    `gorm:"type:varchar(16);index;not null" json:"status"`
	TotalAmount     int64     `gorm:"not null" json:"total_amount"`
	Currency        string    `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	CustomerEmail   string    `gorm:"type:varchar(320)" json:"customer_email"`
	CustomerName    string    `gorm:"type:varchar(255)" json:"customer_name"`
	ShippingAddress string    `gorm:"type:text" json:"shipping_address,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	StripeSessionID *string   `gorm:"type:varchar(255);uniqueIndex" json:"stripe_session_id,omitempty"`
	Items           []Item    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// Number is the customer-facing order reference.
func (o Order) Number() string {
	return "ORD-" + itoa(o.ID)
}

// Item is an immutable snapshot of a billed line.
type Item struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint64    `gorm:"index;not null" json:"order_id"`
	ProductID  uint64    `gorm:"index;not null" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	Discount   int64     `gorm:"not null;default:0" json:"discount"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Item) TableName() string { return "order_items" }
