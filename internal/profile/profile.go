package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BuyerProfile struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName     string    `gorm:"type:varchar(255)" json:"company_name"`
	CompanyType     string    `gorm:"type:varchar(64)" json:"company_type"`
	Country         string    `gorm:"type:varchar(64)" json:"country"`
	BusinessLicense string    `gorm:"type:varchar(255)" json:"business_license"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (BuyerProfile) TableName() string { return "buyer_profiles" }

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the user's profile, or nil when none has been saved yet.
func (s *Service) Get(ctx context.Context, userID uint64) (*BuyerProfile, error) {
	var p BuyerProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return &p, nil
}

type Input struct {
	CompanyName     string `json:"company_name"`
	CompanyType     string `json:"company_type"`
	Country         string `json:"country"`
	BusinessLicense string `json:"business_license"`
}

// Update creates or replaces the user's profile.
func (s *Service) Update(ctx context.Context, userID uint64, in Input) (*BuyerProfile, error) {
	if len(in.CompanyName) > 255 || len(in.BusinessLicense) > 255 {
		return nil, common.Validation("company name and business license must be at most 255 characters")
	}
	p := &BuyerProfile{
		UserID:          userID,
		CompanyName:     strings.TrimSpace(in.CompanyName),
		CompanyType:     strings.TrimSpace(in.CompanyType),
		Country:         strings.ToUpper(strings.TrimSpace(in.Country)),
		BusinessLicense: strings.TrimSpace(in.BusinessLicense),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_name", "company_type", "country", "business_license", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return s.Get(ctx, userID)
}
