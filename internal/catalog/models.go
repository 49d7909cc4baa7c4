package catalog

import "time"

type Category struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Slug         string    `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	ImageURL     string    `gorm:"type:varchar(512)" json:"image_url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

type ConditionGrade struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(64);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ConditionGrade) TableName() string { return "condition_grades" }

// Product prices are minor currency units.
type Product struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID       uint64    `gorm:"index;not null" json:"category_id"`
	ConditionGradeID *uint64   `gorm:"index" json:"condition_grade_id,omitempty"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug             string    `gorm:"type:varchar(300);uniqueIndex;not null" json:"slug"`
	SKU              string    `gorm:"column:sku;type:varchar(100);uniqueIndex;not null" json:"sku"`
	Description      string    `gorm:"type:text" json:"description"`
	Specifications   string    `gorm:"type:text" json:"specifications"`
	BasePrice        int64     `gorm:"not null" json:"base_price"`
	MOQ              int       `gorm:"column:moq;not null;default:1" json:"moq"`
	Stock            int       `gorm:"not null;default:0" json:"stock"`
	Images           string    `gorm:"type:text" json:"images"`
	Featured         bool      `gorm:"not null;default:false;index" json:"featured"`
	Active           bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Certification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Issuer      string    `gorm:"type:varchar(128)" json:"issuer"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Certification) TableName() string { return "certifications" }

type ProductCertification struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       uint64 `gorm:"not null;uniqueIndex:uniq_product_cert,priority:1" json:"product_id"`
	CertificationID uint64 `gorm:"not null;uniqueIndex:uniq_product_cert,priority:2" json:"certification_id"`
}

func (ProductCertification) TableName() string { return "product_certifications" }
