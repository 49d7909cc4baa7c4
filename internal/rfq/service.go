package rfq

import (
	"context"
	"strings"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

// ProductLookup reports whether a product exists.
type ProductLookup interface {
	ProductExists(ctx context.Context, id uint64) (bool, error)
}

type Service struct {
	repo     *Repo
	products ProductLookup
}

func NewService(repo *Repo, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

type SubmitInput struct {
	ProductID   uint64 `json:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	Message     string `json:"message"`
}

func (s *Service) Submit(ctx context.Context, userID uint64, email string, in SubmitInput) (*Inquiry, error) {
	if in.Quantity < 1 {
		return nil, common.Validation("quantity must be >= 1")
	}
	if s.products != nil {
		ok, err := s.products.ProductExists(ctx, in.ProductID)
		if err != nil {
			return nil, common.Unavailable(err)
		}
		if !ok {
			return nil, common.NotFound("product")
		}
	}
	inq := &Inquiry{
		UserID:      userID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		CompanyName: strings.TrimSpace(in.CompanyName),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       email,
		Phone:       strings.TrimSpace(in.Phone),
		Country:     strings.ToUpper(strings.TrimSpace(in.Country)),
		Message:     in.Message,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, inq); err != nil {
		return nil, common.Unavailable(err)
	}
	return inq, nil
}

func (s *Service) MyInquiries(ctx context.Context, userID uint64) ([]Inquiry, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	return out, common.DBErr(err, "inquiries")
}

func (s *Service) List(ctx context.Context, status Status, limit int) ([]Inquiry, error) {
	out, err := s.repo.ListByStatus(ctx, status, limit)
	return out, common.DBErr(err, "inquiries")
}

func (s *Service) Get(ctx context.Context, id uint64) (*Inquiry, error) {
	in, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, common.DBErr(err, "inquiry")
	}
	return in, nil
}
