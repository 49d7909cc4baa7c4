package rfq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type stubProducts map[uint64]bool

func (s stubProducts) ProductExists(_ context.Context, id uint64) (bool, error) {
	if id == 500 {
		return false, errors.New("db down")
	}
	return s[id], nil
}

func setup(t *testing.T) (*Repo, *Service) {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Inquiry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	repo := NewRepo(db)
	return repo, NewService(repo, stubProducts{7: true})
}

func TestSubmit(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	in, err := svc.Submit(ctx, 1, "buyer@example.com", SubmitInput{ProductID: 7, Quantity: 100, Country: " de ", CompanyName: " Acme "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if in.Status != StatusPending || in.Email != "buyer@example.com" || in.Country != "DE" || in.CompanyName != "Acme" {
		t.Fatalf("unexpected inquiry %+v", in)
	}

	cases := []struct {
		name string
		in   SubmitInput
		kind common.Kind
	}{
		{"zero qty", SubmitInput{ProductID: 7, Quantity: 0}, common.KindValidation},
		{"unknown product", SubmitInput{ProductID: 8, Quantity: 1}, common.KindNotFound},
		{"lookup failure", SubmitInput{ProductID: 500, Quantity: 1}, common.KindUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, 1, "b@example.com", tc.in); common.KindOf(err) != tc.kind {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestMyInquiriesNewestFirst(t *testing.T) {
	repo, svc := setup(t)
	ctx := context.Background()
	a, _ := svc.Submit(ctx, 1, "a@example.com", SubmitInput{ProductID: 7, Quantity: 1})
	b, _ := svc.Submit(ctx, 1, "a@example.com", SubmitInput{ProductID: 7, Quantity: 2})
	svc.Submit(ctx, 2, "c@example.com", SubmitInput{ProductID: 7, Quantity: 3})

	got, err := svc.MyInquiries(ctx, 1)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 inquiries, got %d err=%v", len(got), err)
	}
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected newest first, got %d,%d", got[0].ID, got[1].ID)
	}

	price := int64(4500)
	if err := repo.SetStatus(ctx, a.ID, StatusQuoted, &price); err != nil {
		t.Fatalf("set status: %v", err)
	}
	quoted, err := svc.List(ctx, StatusQuoted, 10)
	if err != nil || len(quoted) != 1 || *quoted[0].QuotedPrice != 4500 {
		t.Fatalf("unexpected quoted list %+v err=%v", quoted, err)
	}

	if _, err := svc.Get(ctx, 999); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
