package sharing

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

const defaultDescription = "Premium surplus goods"

var Platforms = []string{"facebook", "twitter", "linkedin", "whatsapp", "telegram", "email"}

// Counter stores share counts per product and platform.
type Counter interface {
	IncrShare(ctx context.Context, productID uint64, platform string) (int64, error)
	ShareStats(ctx context.Context, productID uint64) (map[string]int64, error)
}

// Product is the subset of a catalog product needed to build share content.
// BasePrice is in cents.
type Product struct {
	ID          uint64 `json:"product_id"`
	Name        string `json:"product_name"`
	Slug        string `json:"product_slug"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	BasePrice   int64  `json:"base_price"`
	ImageURL    string `json:"image_url"`
}

func (p Product) validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Slug) == "" {
		return common.Validation("product name and slug are required")
	}
	return nil
}

func (p Product) description() string {
	if p.Description != "" {
		return p.Description
	}
	return defaultDescription
}

func (p Product) price() string {
	return decimal.New(p.BasePrice, -2).StringFixed(2)
}

type Service struct {
	baseURL string
	counter Counter
}

// NewService builds the sharing service. counter may be nil, in which case
// shares are only logged.
func NewService(baseURL string, counter Counter) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/"), counter: counter}
}

func (s *Service) productURL(p Product) string {
	return s.baseURL + "/products/" + url.PathEscape(p.Slug)
}

// encode matches JavaScript's encodeURIComponent closely enough for share links.
func encode(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

func (s *Service) ShareURLs(p Product) (map[string]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	u := encode(s.productURL(p))
	title := encode("Check out: " + p.Name)
	desc := p.Description
	if desc == "" {
		desc = fmt.Sprintf("Wholesale %s - %s", p.Name, p.SKU)
	}
	return map[string]string{
		"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + u,
		"twitter":  "https://twitter.com/intent/tweet?url=" + u + "&text=" + title + "&hashtags=wholesale,B2B,surplus",
		"linkedin": "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		"whatsapp": "https://wa.me/?text=" + title + "%20" + u,
		"telegram": "https://t.me/share/url?url=" + u + "&text=" + title,
		"email":    "mailto:?subject=" + title + "&body=" + encode(desc) + "%0A%0A" + u,
	}, nil
}

// MetaTags returns Open Graph and Twitter card tags for the product page.
func (s *Service) MetaTags(p Product) (map[string]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	image := p.ImageURL
	if image == "" {
		image = s.baseURL + "/default-product.jpg"
	}
	return map[string]string{
		"og:title":            p.Name,
		"og:description":      p.description(),
		"og:url":              s.productURL(p),
		"og:image":            image,
		"og:type":             "product",
		"og:price:amount":     p.price(),
		"og:price:currency":   "USD",
		"twitter:card":        "summary_large_image",
		"twitter:title":       p.Name,
		"twitter:description": p.description(),
		"twitter:image":       image,
	}, nil
}

// TrackingURL appends utm parameters to shareURL.
func TrackingURL(shareURL, platform string, productID uint64) string {
	q := url.Values{}
	q.Set("utm_source", platform)
	q.Set("utm_medium", "social")
	q.Set("utm_campaign", fmt.Sprintf("product_%d", productID))
	sep := "?"
	if strings.Contains(shareURL, "?") {
		sep = "&"
	}
	return shareURL + sep + q.Encode()
}

func validPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// TrackShare records one share and returns the new count for that platform.
func (s *Service) TrackShare(ctx context.Context, productID uint64, platform string) (int64, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if productID == 0 || !validPlatform(platform) {
		return 0, common.Validation("unknown share platform %q", platform)
	}
	log.Printf("[Share Tracking] product=%d platform=%s", productID, platform)
	if s.counter == nil {
		return 0, nil
	}
	n, err := s.counter.IncrShare(ctx, productID, platform)
	if err != nil {
		return 0, common.Unavailable(err)
	}
	return n, nil
}

func (s *Service) Stats(ctx context.Context, productID uint64) (map[string]int64, error) {
	out := make(map[string]int64, len(Platforms))
	for _, p := range Platforms {
		out[p] = 0
	}
	if s.counter == nil {
		return out, nil
	}
	got, err := s.counter.ShareStats(ctx, productID)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	for k, v := range got {
		out[k] = v
	}
	return out, nil
}
