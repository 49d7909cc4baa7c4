package profile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

func TestGetAndUpsert(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&BuyerProfile{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	svc := NewService(db)
	ctx := context.Background()

	p, err := svc.Get(ctx, 1)
	if err != nil || p != nil {
		t.Fatalf("expected no profile, got %+v err=%v", p, err)
	}

	p, err = svc.Update(ctx, 1, Input{CompanyName: "Acme", Country: "de"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.CompanyName != "Acme" || p.Country != "DE" {
		t.Fatalf("unexpected profile %+v", p)
	}
	firstID := p.ID

	p, err = svc.Update(ctx, 1, Input{CompanyName: "Acme GmbH", CompanyType: "retailer"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.ID != firstID || p.CompanyName != "Acme GmbH" || p.CompanyType != "retailer" || p.Country != "" {
		t.Fatalf("expected in-place replace, got %+v", p)
	}

	var n int64
	db.Model(&BuyerProfile{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}

	if _, err := svc.Update(ctx, 1, Input{CompanyName: strings.Repeat("x", 256)}); common.KindOf(err) != common.KindValidation {
		t.Fatalf("long name must be rejected, got %v", err)
	}
}
