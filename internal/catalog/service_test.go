package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type memCache struct {
	data map[string][]byte
	gets int
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	m.gets++
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Category{}, &ConditionGrade{}, &Product{}, &Certification{}, &ProductCertification{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateProduct_SlugAndCacheInvalidation(t *testing.T) {
	db := openTestDB(t)
	cache := newMemCache()
	svc := NewService(NewRepo(db), cache, time.Minute)
	ctx := context.Background()

	cat := &Category{Name: "Consumer Electronics"}
	if err := svc.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.Slug != "consumer-electronics" {
		t.Fatalf("unexpected category slug %q", cat.Slug)
	}

	if _, err := svc.ListProducts(ctx, 0); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.ListProducts(ctx, 0); err != nil {
		t.Fatalf("list: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected second list to hit cache, hits=%d", cache.hits)
	}

	p1 := &Product{CategoryID: cat.ID, Name: "USB-C Cable 1m", SKU: "USBC-1", BasePrice: 199}
	if err := svc.CreateProduct(ctx, p1); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if p1.Slug != "usb-c-cable-1m" || p1.MOQ != 1 {
		t.Fatalf("unexpected product defaults slug=%q moq=%d", p1.Slug, p1.MOQ)
	}
	p2 := &Product{CategoryID: cat.ID, Name: "USB-C Cable 1m", SKU: "USBC-2", BasePrice: 199}
	if err := svc.CreateProduct(ctx, p2); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if p2.Slug == p1.Slug || !strings.HasPrefix(p2.Slug, "usb-c-cable-1m-") {
		t.Fatalf("expected de-duplicated slug, got %q", p2.Slug)
	}

	list, err := svc.ListProducts(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected cache to be invalidated and 2 products listed, got %d", len(list))
	}
	if list[0].ID != p2.ID {
		t.Fatalf("expected newest first")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), nil, 0)
	ctx := context.Background()

	err := svc.CreateProduct(ctx, &Product{CategoryID: 1, Name: "x", SKU: "x", BasePrice: -1})
	if common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = svc.CreateProduct(ctx, &Product{CategoryID: 99, Name: "x", SKU: "x"})
	if common.KindOf(err) != common.KindNotFound {
		t.Fatalf("expected missing category, got %v", err)
	}
}

func TestBySlugNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), nil, 0)
	if _, err := svc.BySlug(context.Background(), "missing"); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeaturedAndCertifications(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), nil, 0)
	ctx := context.Background()

	cat := &Category{Name: "Tools", Slug: "tools"}
	db.Create(cat)
	for i := 0; i < 8; i++ {
		db.Create(&Product{CategoryID: cat.ID, Name: fmt.Sprintf("p%d", i), Slug: fmt.Sprintf("p%d", i), SKU: fmt.Sprintf("S%d", i), Featured: true, Active: true})
	}
	db.Model(&Product{}).Where("sku = ?", "S7").Update("active", false)

	featured, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 6 {
		t.Fatalf("expected 6 featured, got %d", len(featured))
	}
	for _, p := range featured {
		if p.SKU == "S7" {
			t.Fatalf("inactive product listed")
		}
	}

	cert := &Certification{Name: "CE"}
	db.Create(cert)
	db.Create(&ProductCertification{ProductID: featured[0].ID, CertificationID: cert.ID})
	certs, err := svc.ProductCertifications(ctx, featured[0].ID)
	if err != nil {
		t.Fatalf("product certs: %v", err)
	}
	if len(certs) != 1 || certs[0].Name != "CE" {
		t.Fatalf("unexpected certifications %+v", certs)
	}
}
