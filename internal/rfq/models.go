package rfq

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusQuoted   Status = "quoted"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

type Inquiry struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"user_id"`
	ProductID   uint64    `gorm:"index;not null" json:"product_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	CompanyName string    `gorm:"type:varchar(255)" json:"company_name"`
	ContactName string    `gorm:"type:varchar(255)" json:"contact_name"`
	Email       string    `gorm:"type:varchar(320);not null" json:"email"`
	Phone       string    `gorm:"type:varchar(64)" json:"phone"`
	Country     string    `gorm:"type:varchar(64)" json:"country"`
	Message     string    `gorm:"type:text" json:"message"`
	Status      Status    `gorm:"type:varchar(16);index;not null;default:pending" json:"status"`
	QuotedPrice *int64    `json:"quoted_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Inquiry) TableName() string { return "rfq_inquiries" }
