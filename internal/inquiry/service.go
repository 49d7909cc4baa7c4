package inquiry

import (
	"context"
	"log"
	"net/mail"
	"strings"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/notify"
	"gorm.io/gorm"
)

type Input struct {
	InquiryID     uint64 `json:"inquiry_id" binding:"required"`
	ProductID     uint64 `json:"product_id" binding:"required"`
	ProductName   string `json:"product_name" binding:"required"`
	ProductSKU    string `json:"product_sku"`
	PageURL       string `json:"page_url"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	CustomerPhone string `json:"customer_phone"`
	SendEmail     *bool  `json:"send_email"`
	SendSMS       *bool  `json:"send_sms"`
}

type Result struct {
	ID        uint64 `json:"id"`
	EmailSent bool   `json:"email_sent"`
	SMSSent   bool   `json:"sms_sent"`
}

type Service struct {
	db    *gorm.DB
	email notify.Sender
	sms   notify.SMSSender
}

func NewService(db *gorm.DB, email notify.Sender, sms notify.SMSSender) *Service {
	return &Service{db: db, email: email, sms: sms}
}

func orTrue(b *bool) bool { return b == nil || *b }

// SendInquiryNotification records the inquiry and confirms it to the
// customer. Delivery failures only leave the matching flag unset.
func (s *Service) SendInquiryNotification(ctx context.Context, userID uint64, customerName string, in Input) (*Result, error) {
	if strings.TrimSpace(in.ProductName) == "" {
		return nil, common.Validation("product_name is required")
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		return nil, common.Validation("customer_email is invalid")
	}
	if customerName == "" {
		customerName = "Valued Customer"
	}

	n := &Notification{
		UserID:        userID,
		InquiryID:     in.InquiryID,
		ProductID:     in.ProductID,
		ProductName:   strings.TrimSpace(in.ProductName),
		ProductSKU:    strings.TrimSpace(in.ProductSKU),
		PageURL:       strings.TrimSpace(in.PageURL),
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, common.Unavailable(err)
	}

	if orTrue(in.SendEmail) && s.email != nil {
		if s.sendEmail(ctx, n, customerName) {
			n.EmailSent = true
			s.setFlag(ctx, n.ID, "email_sent")
		}
	}
	if orTrue(in.SendSMS) && n.CustomerPhone != "" && s.sms != nil {
		if err := s.sms.SendSMS(ctx, n.CustomerPhone, notify.InquirySMS(n.ProductName, n.ProductSKU)); err != nil {
			log.Printf("[Inquiry SMS] send to %s failed: %v", n.CustomerPhone, err)
		} else {
			n.SMSSent = true
			s.setFlag(ctx, n.ID, "sms_sent")
		}
	}
	return &Result{ID: n.ID, EmailSent: n.EmailSent, SMSSent: n.SMSSent}, nil
}

func (s *Service) sendEmail(ctx context.Context, n *Notification, customerName string) bool {
	msg, err := notify.InquiryEmail(n.CustomerEmail, notify.InquiryData{
		CustomerName: customerName,
		ProductName:  n.ProductName,
		ProductSKU:   n.ProductSKU,
		PageURL:      n.PageURL,
	})
	if err != nil {
		log.Printf("[Inquiry Email] render failed: %v", err)
		return false
	}
	if err := s.email.Send(ctx, msg); err != nil {
		log.Printf("[Inquiry Email] send to %s failed: %v", n.CustomerEmail, err)
		return false
	}
	log.Printf("[Inquiry Email] confirmation sent to %s", n.CustomerEmail)
	return true
}

func (s *Service) setFlag(ctx context.Context, id uint64, column string) {
	if err := s.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update(column, true).Error; err != nil {
		log.Printf("[Inquiry] set %s on notification=%d: %v", column, id, err)
	}
}

func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]Notification, error) {
	var out []Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, common.DBErr(err, "inquiry notifications")
}
