package generator

// CountryCurrency pairs an ISO 3166 alpha-3 country with its settlement currency.
type CountryCurrency struct {
	Country  string
	Currency string
}

// countryCurrencies is the draw table for merchant and issuer locations.
// Its order is part of the seed contract.
var countryCurrencies = []CountryCurrency{
	{"USA", "USD"}, {"CAN", "CAD"}, {"GBR", "GBP"}, {"JPN", "JPY"},
	{"AUS", "AUD"}, {"CHE", "CHF"}, {"SWE", "SEK"}, {"NOR", "NOK"},
	{"DNK", "DKK"}, {"POL", "PLN"}, {"CZE", "CZK"}, {"HUN", "HUF"},
	{"BGR", "BGN"}, {"ROU", "RON"}, {"KOR", "KRW"}, {"MEX", "MXN"},
	{"BRA", "BRL"}, {"ARG", "ARS"}, {"CHL", "CLP"}, {"COL", "COP"},
	{"PER", "PEN"}, {"ARE", "AED"}, {"ZAF", "ZAR"}, {"SGP", "SGD"},
	{"DEU", "EUR"}, {"FRA", "EUR"}, {"ITA", "EUR"}, {"ESP", "EUR"},
	{"NLD", "EUR"}, {"BEL", "EUR"}, {"AUT", "EUR"}, {"IRL", "EUR"},
	{"PRT", "EUR"}, {"GRC", "EUR"}, {"FIN", "EUR"}, {"SVN", "EUR"},
	{"EST", "EUR"}, {"LVA", "EUR"}, {"LTU", "EUR"}, {"LUX", "EUR"},
	{"MLT", "EUR"}, {"CYP", "EUR"}, {"HRV", "EUR"},
}

// CountryCurrencies returns a copy of the location draw table.
func CountryCurrencies() []CountryCurrency {
	out := make([]CountryCurrency, len(countryCurrencies))
	copy(out, countryCurrencies)
	return out
}

// toUSD converts one unit of a currency into US dollars.
var toUSD = map[string]float64{
	"USD": 1.0, "EUR": 1.05, "GBP": 1.27, "JPY": 0.0067, "CAD": 0.72,
	"AUD": 0.65, "CHF": 1.13, "SEK": 0.096, "NOK": 0.091, "DKK": 0.14,
	"PLN": 0.25, "CZK": 0.042, "HUF": 0.0027, "BGN": 0.54, "RON": 0.21,
	"KRW": 0.00075, "MXN": 0.049, "BRL": 0.17, "ARS": 0.0010, "CLP": 0.0010,
	"COP": 0.00023, "PEN": 0.26, "AED": 0.27, "ZAR": 0.055, "SGD": 0.74,
}

// fromUSD converts one US dollar into a currency.
var fromUSD = map[string]float64{
	"USD": 1.0, "EUR": 0.95, "GBP": 0.79, "JPY": 149.5, "CAD": 1.39,
	"AUD": 1.54, "CHF": 0.88, "SEK": 10.4, "NOK": 11.0, "DKK": 7.1,
	"PLN": 4.0, "CZK": 23.8, "HUF": 370.0, "BGN": 1.86, "RON": 4.75,
	"KRW": 1330.0, "MXN": 20.4, "BRL": 5.8, "ARS": 1000.0, "CLP": 970.0,
	"COP": 4350.0, "PEN": 3.85, "AED": 3.67, "ZAR": 18.2, "SGD": 1.35,
}

func usdRate(table map[string]float64, currency string) float64 {
	if r, ok := table[currency]; ok {
		return r
	}
	return 1.0
}
