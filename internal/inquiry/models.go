package inquiry

import "time"

// Notification records a product inquiry confirmation and its delivery flags.
type Notification struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"index;not null" json:"user_id"`
	InquiryID     uint64    `gorm:"index;not null" json:"inquiry_id"`
	ProductID     uint64    `gorm:"index;not null" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU    string    `gorm:"type:varchar(100)" json:"product_sku,omitempty"`
	PageURL       string    `gorm:"type:varchar(1024)" json:"page_url,omitempty"`
	CustomerEmail string    `gorm:"type:varchar(320);not null" json:"customer_email"`
	CustomerPhone string    `gorm:"type:varchar(64)" json:"customer_phone,omitempty"`
	EmailSent     bool      `gorm:"not null" json:"email_sent"`
	SMSSent       bool      `gorm:"column:sms_sent;not null" json:"sms_sent"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "inquiry_notifications" }
