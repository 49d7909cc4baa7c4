package quote

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/order"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *recordingNotifier) QuoteSent(_ context.Context, q *Quote, inq *rfq.Inquiry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, q.QuoteNumber+"->"+inq.Email)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	rfqRepo  *rfq.Repo
	notifier *recordingNotifier
}

var admin = Actor{UserID: 1, Admin: true}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&rfq.Inquiry{}, &Quote{}, &Item{}, &History{}, &order.Order{}, &order.Item{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	rfqRepo := rfq.NewRepo(db)
	n := &recordingNotifier{}
	svc := NewService(db, NewRepo(db), rfqRepo, order.NewRepo(db), n, 30)
	return &fixture{db: db, svc: svc, rfqRepo: rfqRepo, notifier: n}
}

func (f *fixture) inquiry(t *testing.T, userID uint64, productID uint64, qty int) *rfq.Inquiry {
	t.Helper()
	inq := &rfq.Inquiry{
		UserID:      userID,
		ProductID:   productID,
		Quantity:    qty,
		ContactName: "Jo Buyer",
		Email:       "buyer@example.com",
		Status:      rfq.StatusPending,
	}
	if err := f.rfqRepo.Create(context.Background(), inq); err != nil {
		t.Fatalf("create inquiry: %v", err)
	}
	return inq
}

func (f *fixture) draft(t *testing.T, inquiryID uint64) *Quote {
	t.Helper()
	q, err := f.svc.Create(context.Background(), admin.UserID, CreateInput{
		InquiryID: inquiryID,
		Items: []ItemInput{
			{ProductID: 7, Quantity: 500, UnitPrice: 1000, Discount: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	return q
}

func TestLineTotalRounding(t *testing.T) {
	cases := []struct {
		unit     int64
		qty      int
		discount string
		want     int64
	}{
		{1000, 500, "10", 450000},
		{1000, 1, "0", 1000},
		{999, 1, "50", 500},   // 499.5 rounds away from zero
		{333, 3, "33.33", 666}, // 999 × 0.6667 = 666.0333
		{1250, 4, "100", 0},
	}
	for _, c := range cases {
		got := LineTotal(c.unit, c.qty, decimal.RequireFromString(c.discount))
		if got != c.want {
			t.Fatalf("LineTotal(%d,%d,%s)=%d want %d", c.unit, c.qty, c.discount, got, c.want)
		}
	}
}

func TestQuoteToOrderEndToEnd(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 42, 7, 500)

	q := f.draft(t, inq.ID)
	if q.TotalAmount != 450000 {
		t.Fatalf("expected total 450000, got %d", q.TotalAmount)
	}
	if q.Status != StatusDraft || len(q.QuoteNumber) != len("QT-")+26 {
		t.Fatalf("unexpected quote %+v", q)
	}

	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	got, _ := f.rfqRepo.Get(ctx, inq.ID)
	if got.Status != rfq.StatusQuoted || got.QuotedPrice == nil || *got.QuotedPrice != 450000 {
		t.Fatalf("inquiry not synced: %+v", got)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one quote-sent notification, got %v", f.notifier.sent)
	}

	buyer := Actor{UserID: 42}
	if _, err := f.svc.UpdateStatus(ctx, buyer, q.ID, StatusAccepted, "looks good"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	o, created, err := f.svc.Convert(ctx, buyer, q.ID)
	if err != nil || !created {
		t.Fatalf("convert: created=%v err=%v", created, err)
	}
	if o.TotalAmount != 450000 || o.UserID != 42 || o.Status != order.StatusPending {
		t.Fatalf("unexpected order %+v", o)
	}
	var sum int64
	for _, it := range o.Items {
		sum += it.TotalPrice
	}
	if sum != o.TotalAmount {
		t.Fatalf("items sum %d != total %d", sum, o.TotalAmount)
	}

	again, created, err := f.svc.Convert(ctx, admin, q.ID)
	if err != nil || created || again.ID != o.ID {
		t.Fatalf("second convert must return the same order: created=%v err=%v", created, err)
	}
	var orders int64
	f.db.Model(&order.Order{}).Count(&orders)
	if orders != 1 {
		t.Fatalf("expected exactly one order, got %d", orders)
	}

	hist, err := f.svc.History(ctx, q.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var actions []string
	for _, h := range hist {
		actions = append(actions, h.Action)
	}
	if fmt.Sprint(actions) != "[created sent accepted converted]" {
		t.Fatalf("unexpected history %v", actions)
	}
}

func TestIllegalTransitionsRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.draft(t, f.inquiry(t, 2, 7, 10).ID)

	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusAccepted, ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("draft -> accepted must be rejected, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, "bogus", ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusSent, ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("rejected is terminal, got %v", err)
	}
	if _, _, err := f.svc.Convert(ctx, admin, q.ID); common.KindOf(err) != common.KindValidation {
		t.Fatalf("rejected quote must not convert, got %v", err)
	}
}

func TestBuyerPermissions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.draft(t, f.inquiry(t, 5, 7, 10).ID)

	owner := Actor{UserID: 5}
	stranger := Actor{UserID: 6}

	if _, err := f.svc.GetFor(ctx, owner, q.ID); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("drafts are hidden from buyers, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, q.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.svc.GetFor(ctx, stranger, q.ID); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("stranger must not see quote, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, owner, q.ID, StatusExpired, ""); common.KindOf(err) != common.KindForbidden {
		t.Fatalf("buyer may not expire, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, stranger, q.ID, StatusAccepted, ""); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("stranger may not accept, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, owner, q.ID, StatusRejected, "too pricey"); err != nil {
		t.Fatalf("owner reject: %v", err)
	}
	inq, _ := f.rfqRepo.Get(ctx, q.RfqInquiryID)
	if inq.Status != rfq.StatusRejected {
		t.Fatalf("inquiry should be rejected, got %s", inq.Status)
	}
}

func TestExpiryOnReadAndSweep(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 9, 7, 10)
	a := f.draft(t, inq.ID)
	b := f.draft(t, inq.ID)
	if _, err := f.svc.UpdateStatus(ctx, admin, b.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	later := time.Now().AddDate(0, 0, 31)
	f.svc.now = func() time.Time { return later }

	got, err := f.svc.Get(ctx, a.ID)
	if err != nil || got.Status != StatusExpired {
		t.Fatalf("expected expired on read, got %+v err=%v", got, err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, a.ID, StatusSent, ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("expired quote must not be sent, got %v", err)
	}

	n, err := f.svc.ExpireDue(ctx, later)
	if err != nil || n != 1 {
		t.Fatalf("sweep: n=%d err=%v", n, err)
	}
	if n, _ := f.svc.ExpireDue(ctx, later); n != 0 {
		t.Fatalf("second sweep must be a no-op, got %d", n)
	}
	if _, err := f.svc.ActiveForInquiry(ctx, inq.ID, true); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("no active quote expected, got %v", err)
	}
}

func TestLatestSkipsRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 3, 7, 10)
	first := f.draft(t, inq.ID)
	second := f.draft(t, inq.ID)

	got, err := f.svc.ActiveForInquiry(ctx, inq.ID, true)
	if err != nil || got.ID != second.ID {
		t.Fatalf("expected newest quote %d, got %+v err=%v", second.ID, got, err)
	}

	if _, err := f.svc.UpdateStatus(ctx, admin, second.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, admin, second.ID, StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, err = f.svc.ActiveForInquiry(ctx, inq.ID, true)
	if err != nil || got.ID != first.ID {
		t.Fatalf("expected fallback to %d, got %+v err=%v", first.ID, got, err)
	}
}

func TestActiveForBuyerSkipsDraftRevision(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 3, 7, 10)

	if _, err := f.svc.ActiveForInquiry(ctx, inq.ID, false); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("nothing sent yet, got %v", err)
	}
	sent := f.draft(t, inq.ID)
	if _, err := f.svc.UpdateStatus(ctx, admin, sent.ID, StatusSent, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	revision := f.draft(t, inq.ID)

	got, err := f.svc.ActiveForInquiry(ctx, inq.ID, false)
	if err != nil || got.ID != sent.ID {
		t.Fatalf("buyer must see sent quote %d, got %+v err=%v", sent.ID, got, err)
	}
	got, err = f.svc.ActiveForInquiry(ctx, inq.ID, true)
	if err != nil || got.ID != revision.ID {
		t.Fatalf("admin must see draft revision %d, got %+v err=%v", revision.ID, got, err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 1, 7, 10)

	bad := []CreateInput{
		{InquiryID: inq.ID},
		{InquiryID: inq.ID, Items: []ItemInput{{ProductID: 1, Quantity: 0, UnitPrice: 10}}},
		{InquiryID: inq.ID, Items: []ItemInput{{ProductID: 1, Quantity: 1, UnitPrice: -1}}},
		{InquiryID: inq.ID, Items: []ItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 10, Discount: decimal.NewFromInt(101)}}},
		{InquiryID: inq.ID, Items: []ItemInput{{ProductID: 1, Quantity: 500, UnitPrice: 1000, Discount: decimal.RequireFromString("10.555")}}},
	}
	for i, in := range bad {
		if _, err := f.svc.Create(ctx, 1, in); common.KindOf(err) != common.KindValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if _, err := f.svc.Create(ctx, 1, CreateInput{InquiryID: 999, Items: []ItemInput{{ProductID: 1, Quantity: 1}}}); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("unknown inquiry must be not found, got %v", err)
	}
	var n int64
	f.db.Model(&Quote{}).Count(&n)
	if n != 0 {
		t.Fatalf("nothing should be written, found %d quotes", n)
	}
}

func TestTwoDecimalDiscountTotalsMatchStoredRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inq := f.inquiry(t, 1, 7, 500)

	q, err := f.svc.Create(ctx, 1, CreateInput{InquiryID: inq.ID, Items: []ItemInput{
		{ProductID: 7, Quantity: 500, UnitPrice: 1000, Discount: decimal.RequireFromString("10.56")},
		{ProductID: 8, Quantity: 3, UnitPrice: 999, Discount: decimal.RequireFromString("12.5000")},
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var items []Item
	if err := f.db.Where("quote_id = ?", q.ID).Order("id ASC").Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	var sum int64
	for _, it := range items {
		if want := LineTotal(it.UnitPrice, it.Quantity, it.Discount); it.TotalPrice != want {
			t.Fatalf("item %d: stored total %d, re-derived %d", it.ID, it.TotalPrice, want)
		}
		sum += it.TotalPrice
	}
	if items[0].TotalPrice != 447200 {
		t.Fatalf("expected 447200, got %d", items[0].TotalPrice)
	}
	var stored Quote
	f.db.First(&stored, q.ID)
	if stored.TotalAmount != sum {
		t.Fatalf("quote total %d != item sum %d", stored.TotalAmount, sum)
	}
}
