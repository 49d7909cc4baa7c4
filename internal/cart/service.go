package cart

import (
	"context"

	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
)

type Products interface {
	Product(ctx context.Context, id uint64) (*catalog.Product, error)
	ProductsByID(ctx context.Context, ids []uint64) (map[uint64]catalog.Product, error)
}

type Pricer interface {
	PriceForQuantity(ctx context.Context, productID uint64, basePrice int64, qty int) (int64, error)
}

type Discounts interface {
	ApplicableDiscount(ctx context.Context, userID, productID, categoryID uint64) (*membership.Discount, error)
}

type Service struct {
	repo      *Repo
	products  Products
	pricer    Pricer
	discounts Discounts
}

// NewService builds the cart service. discounts may be nil.
func NewService(repo *Repo, products Products, pricer Pricer, discounts Discounts) *Service {
	return &Service{repo: repo, products: products, pricer: pricer, discounts: discounts}
}

func (s *Service) Items(ctx context.Context, userID uint64) ([]Line, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Line, 0, len(items))
	for _, it := range items {
		l := Line{Item: it}
		if p, ok := products[it.ProductID]; ok {
			l.Product = &p
		}
		out = append(out, l)
	}
	return out, nil
}

type AddInput struct {
	ProductID   uint64 `json:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	SelectedMOQ *int   `json:"selected_moq"`
}

// AddItem puts a product in the cart. Adding a product already in the cart
// increases its quantity.
func (s *Service) AddItem(ctx context.Context, userID uint64, in AddInput) (*Item, error) {
	if in.Quantity < 1 {
		return nil, common.Validation("quantity must be >= 1")
	}
	p, err := s.products.Product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, common.Validation("product %d is not available", p.ID)
	}
	it := &Item{
		UserID:      userID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		SelectedMOQ: in.SelectedMOQ,
	}
	if err := s.repo.Add(ctx, it); err != nil {
		return nil, common.Unavailable(err)
	}
	got, err := s.repo.GetByProduct(ctx, userID, in.ProductID)
	if err != nil {
		return nil, common.DBErr(err, "cart item")
	}
	return got, nil
}

// owned reports NotFound for missing rows and Forbidden for rows of another user.
func (s *Service) owned(ctx context.Context, userID, itemID uint64) error {
	it, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return common.DBErr(err, "cart item")
	}
	if it.UserID != userID {
		return common.Forbidden("cart item belongs to another user")
	}
	return nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, itemID uint64, qty int) (*Item, error) {
	if qty < 1 {
		return nil, common.Validation("quantity must be >= 1")
	}
	if err := s.owned(ctx, userID, itemID); err != nil {
		return nil, err
	}
	n, err := s.repo.SetQuantity(ctx, itemID, userID, qty)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	if n == 0 {
		return nil, common.NotFound("cart item")
	}
	it, err := s.repo.Get(ctx, itemID)
	return it, common.DBErr(err, "cart item")
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	if err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, itemID, userID); err != nil {
		return common.Unavailable(err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return 0, common.Unavailable(err)
	}
	return n, nil
}

// Total prices every line at the tier for its quantity and subtracts the
// user's membership discount per line. Lines whose product is gone are skipped.
func (s *Service) Total(ctx context.Context, userID uint64) (*Summary, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Lines: make([]LineTotal, 0, len(lines))}
	for _, l := range lines {
		if l.Product == nil {
			continue
		}
		lt, err := s.priceLine(ctx, userID, l.Product, l.Quantity)
		if err != nil {
			return nil, err
		}
		lt.ItemID = l.ID
		sum.Lines = append(sum.Lines, *lt)
		sum.ItemCount += l.Quantity
		sum.Subtotal += lt.Gross
		sum.Discount += lt.Discount
		sum.Total += lt.Total
	}
	return sum, nil
}

// PriceLine prices qty units of an active product for userID the same way
// Total does.
func (s *Service) PriceLine(ctx context.Context, userID, productID uint64, qty int) (*LineTotal, error) {
	if qty < 1 {
		return nil, common.Validation("quantity must be >= 1")
	}
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, common.Validation("product %d is not available", p.ID)
	}
	return s.priceLine(ctx, userID, p, qty)
}

func (s *Service) priceLine(ctx context.Context, userID uint64, p *catalog.Product, qty int) (*LineTotal, error) {
	unit, err := s.pricer.PriceForQuantity(ctx, p.ID, p.BasePrice, qty)
	if err != nil {
		return nil, err
	}
	gross := unit * int64(qty)
	net := gross
	if s.discounts != nil {
		d, err := s.discounts.ApplicableDiscount(ctx, userID, p.ID, p.CategoryID)
		if err != nil {
			return nil, err
		}
		net = membership.DiscountedPrice(gross, d)
	}
	return &LineTotal{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: unit,
		Gross:     gross,
		Discount:  gross - net,
		Total:     net,
	}, nil
}
