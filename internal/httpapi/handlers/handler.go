package handlers

import (
	"github.com/suPer8Hu/wholesale-platform/internal/bulkupload"
	"github.com/suPer8Hu/wholesale-platform/internal/cart"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/chat"
	"github.com/suPer8Hu/wholesale-platform/internal/checkout"
	"github.com/suPer8Hu/wholesale-platform/internal/config"
	"github.com/suPer8Hu/wholesale-platform/internal/faq"
	"github.com/suPer8Hu/wholesale-platform/internal/inquiry"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"github.com/suPer8Hu/wholesale-platform/internal/multipay"
	"github.com/suPer8Hu/wholesale-platform/internal/pricing"
	"github.com/suPer8Hu/wholesale-platform/internal/profile"
	"github.com/suPer8Hu/wholesale-platform/internal/quote"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
	"github.com/suPer8Hu/wholesale-platform/internal/sharing"
	"gorm.io/gorm"
)

// Deps carries every service the HTTP layer talks to. Nil services are
// only acceptable for namespaces the router does not mount.
type Deps struct {
	Catalog    *catalog.Service
	Pricing    *pricing.Service
	RFQ        *rfq.Service
	Profile    *profile.Service
	Checkout   *checkout.Service
	Quotes     *quote.Service
	Chat       *chat.Service
	Inquiries  *inquiry.Service
	BulkUpload *bulkupload.Service
	FAQ        *faq.Service
	Sharing    *sharing.Service
	Payments   *multipay.Service
	Membership *membership.Service
	Cart       *cart.Service
}

type Handler struct {
	DB  *gorm.DB
	Cfg config.Config
	Deps
}

func NewHandler(db *gorm.DB, cfg config.Config, deps Deps) *Handler {
	return &Handler{DB: db, Cfg: cfg, Deps: deps}
}
