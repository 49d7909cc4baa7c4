package multipay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

func TestDetectRegion(t *testing.T) {
	cases := map[string]Region{
		"us": Americas,
		"DE": Europe,
		"ae": MiddleEast,
		"JP": AsiaPacific,
		"ZZ": Americas,
		"":   Americas,
	}
	for in, want := range cases {
		assert.Equal(t, want, DetectRegion(in), in)
	}
}

func TestFeeRounding(t *testing.T) {
	// 10.00 at 2.9% = 0.29
	b, err := CalculateTotal(1000, "stripe")
	require.NoError(t, err)
	assert.Equal(t, Breakdown{Subtotal: 1000, Fees: 29, Total: 1029}, b)

	// 1.50 at 3.49% = 0.05235 -> 0.05
	b, err = CalculateTotal(150, "paypal")
	require.NoError(t, err)
	assert.EqualValues(t, 5, b.Fees)

	// 1.00 at 2.5% = 0.025 -> 0.03
	b, err = CalculateTotal(100, "checkout")
	require.NoError(t, err)
	assert.EqualValues(t, 3, b.Fees)

	b, err = CalculateTotal(250_000, "bank_transfer")
	require.NoError(t, err)
	assert.Zero(t, b.Fees)
}

func TestAmountValidation(t *testing.T) {
	_, err := CalculateTotal(99_999, "bank_transfer")
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "minimum amount is 1000.00", common.Message(err))

	_, err = CalculateTotal(5_000_001, "cod")
	assert.Equal(t, "maximum amount is 50000.00", common.Message(err))

	_, err = CalculateTotal(1000, "bitcoin")
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestRecommendedSortedByFee(t *testing.T) {
	recs := Recommended(Americas, 10_000)
	require.Len(t, recs, 3)
	assert.Equal(t, Stripe, recs[0].Method)
	assert.Equal(t, PayPal, recs[1].Method)
	assert.Equal(t, MercadoPago, recs[2].Method)
	assert.EqualValues(t, 10_290, recs[0].TotalAmount)

	me := ForCountry("SA", 10_000)
	assert.Equal(t, "AED", me.Currency)
	require.Len(t, me.Recommended, 3)
	assert.Equal(t, COD, me.Recommended[0].Method)
	assert.Equal(t, Checkout, me.Recommended[2].Method)

	assert.Empty(t, ForCountry("FR", 0).Recommended)
}

type failingInit struct{}

func (failingInit) Initialize(context.Context, Request) (*Payload, error) {
	return nil, errors.New("gateway down")
}

func TestInitialize(t *testing.T) {
	svc := NewService(DefaultRegistry())
	res, err := svc.Initialize(context.Background(), "buyer@example.com", InitInput{
		OrderID:  "ORD-12",
		Amount:   12_345,
		Currency: "usd",
		Method:   "Stripe",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.PaymentID, "pay_"))
	assert.Equal(t, "B2B Wholesale Order #ORD-12", res.Payload.Description)
	assert.Equal(t, "USD", res.Payload.Currency)
	assert.EqualValues(t, 12_345, res.Payload.Amount)
	assert.Equal(t, "buyer@example.com", res.Payload.CustomerEmail)

	_, err = svc.Initialize(context.Background(), "b@example.com", InitInput{
		OrderID: "ORD-1", Amount: 12_345, Currency: "AED", Method: "stripe",
	})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	reg := NewRegistry()
	reg.Register(COD, func(Gateway) (Initializer, error) { return failingInit{}, nil })
	svc = NewService(reg)
	_, err = svc.Initialize(context.Background(), "b@example.com", InitInput{
		OrderID: "ORD-1", Amount: 10_000, Currency: "AED", Method: "cod",
	})
	assert.Equal(t, common.KindProvider, common.KindOf(err))

	_, err = svc.Initialize(context.Background(), "b@example.com", InitInput{
		OrderID: "ORD-1", Amount: 10_000, Currency: "AED", Method: "checkout",
	})
	assert.Equal(t, common.KindProvider, common.KindOf(err))
}
