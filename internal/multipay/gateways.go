package multipay

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

type Region string

const (
	Americas    Region = "americas"
	Europe      Region = "europe"
	MiddleEast  Region = "middle_east"
	AsiaPacific Region = "asia_pacific"
)

type Method string

const (
	Stripe       Method = "stripe"
	PayPal       Method = "paypal"
	Checkout     Method = "checkout"
	MercadoPago  Method = "mercado_pago"
	COD          Method = "cod"
	BankTransfer Method = "bank_transfer"
)

type RegionConfig struct {
	Region    Region   `json:"region"`
	Methods   []Method `json:"supported_methods"`
	Primary   Method   `json:"primary_method"`
	Currency  string   `json:"currency"`
	Countries []string `json:"countries"`
}

var regionOrder = []Region{Americas, Europe, MiddleEast, AsiaPacific}

var Regions = map[Region]RegionConfig{
	Americas: {
		Region:    Americas,
		Methods:   []Method{Stripe, PayPal, MercadoPago},
		Primary:   Stripe,
		Currency:  "USD",
		Countries: []string{"US", "CA", "MX", "BR", "AR", "CL", "CO", "PE"},
	},
	Europe: {
		Region:    Europe,
		Methods:   []Method{Stripe, PayPal},
		Primary:   Stripe,
		Currency:  "EUR",
		Countries: []string{"GB", "DE", "FR", "IT", "ES", "NL", "BE", "AT", "CH", "SE", "NO", "DK", "PL"},
	},
	MiddleEast: {
		Region:    MiddleEast,
		Methods:   []Method{Checkout, COD, BankTransfer},
		Primary:   Checkout,
		Currency:  "AED",
		Countries: []string{"AE", "SA", "KW", "QA", "BH", "OM", "JO", "EG"},
	},
	AsiaPacific: {
		Region:    AsiaPacific,
		Methods:   []Method{Stripe, PayPal},
		Primary:   Stripe,
		Currency:  "USD",
		Countries: []string{"CN", "JP", "SG", "HK", "TW", "TH", "MY", "PH", "ID", "VN", "AU", "NZ"},
	},
}

// DetectRegion maps an ISO country code to its payment region. Unknown
// countries fall back to Americas.
func DetectRegion(country string) Region {
	code := strings.ToUpper(strings.TrimSpace(country))
	for _, r := range regionOrder {
		for _, c := range Regions[r].Countries {
			if c == code {
				return r
			}
		}
	}
	return Americas
}

// Gateway limits are in cents.
type Gateway struct {
	Name                Method          `json:"name"`
	DisplayName         string          `json:"display_name"`
	Description         string          `json:"description"`
	Icon                string          `json:"icon"`
	MinAmount           int64           `json:"min_amount"`
	MaxAmount           int64           `json:"max_amount"`
	FeePercent          decimal.Decimal `json:"fees"`
	ProcessingTime      string          `json:"processing_time"`
	SupportedCurrencies []string        `json:"supported_currencies"`
}

func (g Gateway) Label() string {
	return g.Icon + " " + g.DisplayName
}

func (g Gateway) supports(currency string) bool {
	for _, c := range g.SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

var Gateways = map[Method]Gateway{
	Stripe: {
		Name:                Stripe,
		DisplayName:         "Credit/Debit Card (Stripe)",
		Description:         "Secure payment with major credit and debit cards",
		Icon:                "💳",
		MinAmount:           100,
		MaxAmount:           99_999_900,
		FeePercent:          decimal.RequireFromString("2.9"),
		ProcessingTime:      "Instant",
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD"},
	},
	PayPal: {
		Name:                PayPal,
		DisplayName:         "PayPal",
		Description:         "Fast and secure payment with PayPal",
		Icon:                "🅿️",
		MinAmount:           100,
		MaxAmount:           99_999_900,
		FeePercent:          decimal.RequireFromString("3.49"),
		ProcessingTime:      "Instant",
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CNY"},
	},
	Checkout: {
		Name:                Checkout,
		DisplayName:         "Checkout.com",
		Description:         "Global payment processing for Middle East",
		Icon:                "🌍",
		MinAmount:           100,
		MaxAmount:           99_999_900,
		FeePercent:          decimal.RequireFromString("2.5"),
		ProcessingTime:      "1-2 hours",
		SupportedCurrencies: []string{"AED", "SAR", "KWD", "QAR"},
	},
	MercadoPago: {
		Name:                MercadoPago,
		DisplayName:         "Mercado Pago",
		Description:         "Leading payment solution in Latin America",
		Icon:                "🏪",
		MinAmount:           100,
		MaxAmount:           99_999_900,
		FeePercent:          decimal.RequireFromString("3.99"),
		ProcessingTime:      "1-3 business days",
		SupportedCurrencies: []string{"BRL", "ARS", "CLP", "COP", "MXN"},
	},
	COD: {
		Name:                COD,
		DisplayName:         "Cash on Delivery",
		Description:         "Pay when your order arrives",
		Icon:                "💰",
		MinAmount:           100,
		MaxAmount:           5_000_000,
		FeePercent:          decimal.Zero,
		ProcessingTime:      "Upon delivery",
		SupportedCurrencies: []string{"AED", "SAR", "KWD", "QAR"},
	},
	BankTransfer: {
		Name:                BankTransfer,
		DisplayName:         "Bank Transfer",
		Description:         "Direct bank transfer for wholesale orders",
		Icon:                "🏦",
		MinAmount:           100_000,
		MaxAmount:           999_999_900,
		FeePercent:          decimal.Zero,
		ProcessingTime:      "2-5 business days",
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "AED", "CNY"},
	},
}

func LookupGateway(method string) (Gateway, error) {
	g, ok := Gateways[Method(strings.ToLower(strings.TrimSpace(method)))]
	if !ok {
		return Gateway{}, common.Validation("invalid payment method %q", method)
	}
	return g, nil
}
