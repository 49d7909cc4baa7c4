package multipay

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

var hundred = decimal.NewFromInt(100)

// Breakdown amounts are in cents.
type Breakdown struct {
	Subtotal int64 `json:"subtotal"`
	Fees     int64 `json:"fees"`
	Total    int64 `json:"total"`
}

// Fee returns amount * percent / 100 rounded half-up to the cent.
func (g Gateway) Fee(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(g.FeePercent).Div(hundred).Round(0).IntPart()
}

func (g Gateway) Validate(amount int64) error {
	if amount < g.MinAmount {
		return common.Validation("minimum amount is %s", decimal.New(g.MinAmount, -2).StringFixed(2))
	}
	if amount > g.MaxAmount {
		return common.Validation("maximum amount is %s", decimal.New(g.MaxAmount, -2).StringFixed(2))
	}
	return nil
}

func (g Gateway) Breakdown(amount int64) Breakdown {
	fee := g.Fee(amount)
	return Breakdown{Subtotal: amount, Fees: fee, Total: amount + fee}
}

// CalculateTotal validates amount against the gateway limits and returns the
// fee breakdown.
func CalculateTotal(amount int64, method string) (Breakdown, error) {
	g, err := LookupGateway(method)
	if err != nil {
		return Breakdown{}, err
	}
	if err := g.Validate(amount); err != nil {
		return Breakdown{}, err
	}
	return g.Breakdown(amount), nil
}

type Recommendation struct {
	Method         Method `json:"method"`
	DisplayName    string `json:"display_name"`
	Icon           string `json:"icon"`
	Fees           int64  `json:"fees"`
	TotalAmount    int64  `json:"total_amount"`
	ProcessingTime string `json:"processing_time"`
}

// Recommended lists the region's methods, cheapest first.
func Recommended(region Region, amount int64) []Recommendation {
	cfg, ok := Regions[region]
	if !ok {
		cfg = Regions[Americas]
	}
	out := make([]Recommendation, 0, len(cfg.Methods))
	for _, m := range cfg.Methods {
		g := Gateways[m]
		b := g.Breakdown(amount)
		out = append(out, Recommendation{
			Method:         m,
			DisplayName:    g.DisplayName,
			Icon:           g.Icon,
			Fees:           b.Fees,
			TotalAmount:    b.Total,
			ProcessingTime: g.ProcessingTime,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fees < out[j].Fees })
	return out
}

type RegionInfo struct {
	Region      Region           `json:"region"`
	Currency    string           `json:"currency"`
	Methods     []Method         `json:"methods"`
	Recommended []Recommendation `json:"recommended,omitempty"`
}

// ForCountry resolves the payment region for country. A positive amount adds
// the recommended methods with fees.
func ForCountry(country string, amount int64) RegionInfo {
	r := DetectRegion(country)
	cfg := Regions[r]
	info := RegionInfo{Region: r, Currency: cfg.Currency, Methods: cfg.Methods}
	if amount > 0 {
		info.Recommended = Recommended(r, amount)
	}
	return info
}
