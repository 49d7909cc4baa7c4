package tariff

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

var hundred = decimal.NewFromInt(100)

func lookup(country string) (Rate, error) {
	r, ok := byCode[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return Rate{}, common.Validation("tariff information not available for country: %s", country)
	}
	return r, nil
}

func currencyOr(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return "USD"
	}
	return c
}

type Breakdown struct {
	ProductValue int64 `json:"product_value"`
	Duty         int64 `json:"duty"`
	VAT          int64 `json:"vat"`
	Additional   int64 `json:"additional"`
}

// Calculation amounts are in cents.
type Calculation struct {
	ProductValue          int64     `json:"product_value"`
	Currency              string    `json:"currency"`
	CountryCode           string    `json:"country_code"`
	CountryName           string    `json:"country_name"`
	DutyAmount            int64     `json:"duty_amount"`
	VATAmount             int64     `json:"vat_amount"`
	AdditionalTaxes       int64     `json:"additional_taxes"`
	TotalTax              int64     `json:"total_tax"`
	TotalCost             int64     `json:"total_cost"`
	Breakdown             Breakdown `json:"breakdown"`
	EstimatedDeliveryDays int       `json:"estimated_delivery_days"`
	Notes                 string    `json:"notes"`
}

func cents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Calculate applies the destination's duty, VAT and additional taxes to value.
// Each component is computed exactly and rounded to the cent only for output.
func Calculate(value int64, country, currency string) (*Calculation, error) {
	if value < 0 {
		return nil, common.Validation("product value must be >= 0")
	}
	r, err := lookup(country)
	if err != nil {
		return nil, err
	}
	v := decimal.NewFromInt(value)
	duty := v.Mul(r.DutyRate).Div(hundred)
	vat := v.Add(duty).Mul(r.VAT).Div(hundred)
	add := v.Add(duty).Add(vat).Mul(r.Additional).Div(hundred)
	totalTax := cents(duty.Add(vat).Add(add))

	return &Calculation{
		ProductValue:    value,
		Currency:        currencyOr(currency),
		CountryCode:     r.CountryCode,
		CountryName:     r.CountryName,
		DutyAmount:      cents(duty),
		VATAmount:       cents(vat),
		AdditionalTaxes: cents(add),
		TotalTax:        totalTax,
		TotalCost:       value + totalTax,
		Breakdown: Breakdown{
			ProductValue: value,
			Duty:         cents(duty),
			VAT:          cents(vat),
			Additional:   cents(add),
		},
		EstimatedDeliveryDays: r.DeliveryDays,
		Notes:                 r.Description,
	}, nil
}

type BulkItem struct {
	ProductValue int64 `json:"product_value"`
	Quantity     int64 `json:"quantity"`
}

type BulkCalculation struct {
	Calculation
	ItemCount int `json:"item_count"`
}

func CalculateBulk(items []BulkItem, country, currency string) (*BulkCalculation, error) {
	var total int64
	for i, it := range items {
		if it.ProductValue < 0 {
			return nil, common.Validation("item %d: product value must be >= 0", i+1)
		}
		if it.Quantity < 1 {
			return nil, common.Validation("item %d: quantity must be >= 1", i+1)
		}
		total += it.ProductValue * it.Quantity
	}
	c, err := Calculate(total, country, currency)
	if err != nil {
		return nil, err
	}
	return &BulkCalculation{Calculation: *c, ItemCount: len(items)}, nil
}

type Country struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	DutyRate decimal.Decimal `json:"duty_rate"`
	VAT      decimal.Decimal `json:"vat"`
}

func Countries() []Country {
	out := make([]Country, 0, len(rates))
	for _, r := range rates {
		out = append(out, Country{Code: r.CountryCode, Name: r.CountryName, DutyRate: r.DutyRate, VAT: r.VAT})
	}
	return out
}

type Ranked struct {
	Calculation
	Rank int `json:"rank"`
}

// Compare ranks the known countries by total landed cost, cheapest first.
// Unknown country codes are skipped.
func Compare(value int64, countries []string, currency string) ([]Ranked, error) {
	if value < 0 {
		return nil, common.Validation("product value must be >= 0")
	}
	out := make([]Ranked, 0, len(countries))
	for _, code := range countries {
		c, err := Calculate(value, code, currency)
		if err != nil {
			continue
		}
		out = append(out, Ranked{Calculation: *c})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCost < out[j].TotalCost })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

type Summary struct {
	Country           string `json:"country"`
	DutyRate          string `json:"duty_rate"`
	VATRate           string `json:"vat_rate"`
	EstimatedDelivery int    `json:"estimated_delivery"`
	Description       string `json:"description"`
}

func GetSummary(country string) (*Summary, error) {
	r, err := lookup(country)
	if err != nil {
		return nil, err
	}
	days := r.DeliveryDays
	if days == 0 {
		days = defaultDeliveryDays
	}
	return &Summary{
		Country:           r.CountryName,
		DutyRate:          r.DutyRate.String() + "%",
		VATRate:           r.VAT.String() + "%",
		EstimatedDelivery: days,
		Description:       r.Description,
	}, nil
}

type FinalPrice struct {
	ProductValue int64  `json:"product_value"`
	ShippingCost int64  `json:"shipping_cost"`
	Subtotal     int64  `json:"subtotal"`
	Taxes        int64  `json:"taxes"`
	FinalPrice   int64  `json:"final_price"`
	Currency     string `json:"currency"`
}

// EstimateFinalPrice adds shipping on top of the landed cost. Shipping is not
// taxed.
func EstimateFinalPrice(value int64, country string, shipping int64, currency string) (*FinalPrice, error) {
	if shipping < 0 {
		return nil, common.Validation("shipping cost must be >= 0")
	}
	c, err := Calculate(value, country, currency)
	if err != nil {
		return nil, err
	}
	return &FinalPrice{
		ProductValue: value,
		ShippingCost: shipping,
		Subtotal:     value + shipping,
		Taxes:        c.TotalTax,
		FinalPrice:   c.TotalCost + shipping,
		Currency:     c.Currency,
	}, nil
}
