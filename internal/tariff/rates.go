package tariff

import "github.com/shopspring/decimal"

// Rate percentages apply in order: duty on the value, VAT on value+duty,
// additional taxes on value+duty+VAT.
type Rate struct {
	CountryCode  string
	CountryName  string
	DutyRate     decimal.Decimal
	VAT          decimal.Decimal
	Additional   decimal.Decimal
	Description  string
	DeliveryDays int
}

const defaultDeliveryDays = 14

func rate(code, name, duty, vat, add, desc string, days int) Rate {
	return Rate{
		CountryCode:  code,
		CountryName:  name,
		DutyRate:     decimal.RequireFromString(duty),
		VAT:          decimal.RequireFromString(vat),
		Additional:   decimal.RequireFromString(add),
		Description:  desc,
		DeliveryDays: days,
	}
}

var rates = []Rate{
	rate("US", "United States", "5.5", "0", "0", "US tariff rate for electronics and consumer goods", 5),
	rate("CA", "Canada", "6.5", "5", "0", "Canadian tariff and GST", 7),
	rate("MX", "Mexico", "7", "16", "0", "Mexican tariff and IVA", 8),
	rate("BR", "Brazil", "12", "18", "5", "Brazilian tariff, ICMS, and additional fees", 12),
	rate("AR", "Argentina", "10", "21", "0", "Argentine tariff and IVA", 14),

	rate("GB", "United Kingdom", "4", "20", "0", "UK tariff and VAT", 4),
	rate("DE", "Germany", "3.5", "19", "0", "German tariff and VAT", 3),
	rate("FR", "France", "3.5", "20", "0", "French tariff and VAT", 4),
	rate("IT", "Italy", "3.5", "22", "0", "Italian tariff and VAT", 5),
	rate("ES", "Spain", "3.5", "21", "0", "Spanish tariff and VAT", 5),
	rate("NL", "Netherlands", "3.5", "21", "0", "Dutch tariff and VAT", 3),

	rate("AE", "United Arab Emirates", "5", "5", "0", "UAE tariff and VAT", 6),
	rate("SA", "Saudi Arabia", "5", "15", "0", "Saudi Arabia tariff and VAT", 7),
	rate("KW", "Kuwait", "4", "0", "0", "Kuwaiti tariff (no VAT)", 7),
	rate("QA", "Qatar", "4", "0", "0", "Qatari tariff (no VAT)", 7),

	rate("JP", "Japan", "3", "10", "0", "Japanese tariff and consumption tax", 5),
	rate("SG", "Singapore", "0", "8", "0", "Singapore GST (minimal tariffs)", 3),
	rate("HK", "Hong Kong", "0", "0", "0", "Hong Kong (free port, no tariffs)", 2),
	rate("AU", "Australia", "5", "10", "0", "Australian tariff and GST", 8),
	rate("NZ", "New Zealand", "5", "15", "0", "New Zealand tariff and GST", 10),
}

var byCode = func() map[string]Rate {
	m := make(map[string]Rate, len(rates))
	for _, r := range rates {
		m[r.CountryCode] = r
	}
	return m
}()
