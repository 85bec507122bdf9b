package generator

// Merchant is one entry of the merchant directory.
type Merchant struct {
	Name       string
	DBA        string
	LegalName  string
	MCC        string
	RegionCode string
	MID        string
}

var fallbackMerchant = Merchant{"Global Store", "Global Store", "Global Retail Inc", "5999", "001", "MID999999999999"}

// merchantsByCountry is keyed by the merchant country. Region codes:
// 001 North America, 002 Europe, 003 Asia Pacific, 004 Latin America, 005 Middle East & Africa.
var merchantsByCountry = map[string][]Merchant{
	"USA": {
		{"Amazon", "Amazon.com", "Amazon.com Inc", "5999", "001", "MID001234567890"},
		{"Walmart", "Walmart", "Walmart Inc", "5411", "001", "MID002345678901"},
		{"Target", "Target", "Target Corporation", "5331", "001", "MID003456789012"},
		{"Costco", "Costco", "Costco Wholesale Corporation", "5300", "001", "MID004567890123"},
		{"Home Depot", "Home Depot", "The Home Depot Inc", "5211", "001", "MID005678901234"},
		{"Starbucks", "Starbucks", "Starbucks Corporation", "5814", "001", "MID006789012345"},
		{"Best Buy", "Best Buy", "Best Buy Co Inc", "5732", "001", "MID009012345678"},
		{"CVS Pharmacy", "CVS", "CVS Health Corporation", "5912", "001", "MID011234567890"},
	},
	"CAN": {
		{"Tim Hortons", "Tim Hortons", "Tim Hortons Inc", "5814", "001", "MID026789012345"},
		{"Shoppers Drug Mart", "Shoppers", "Shoppers Drug Mart Corporation", "5912", "001", "MID029012345678"},
		{"Sobeys", "Sobeys", "Empire Company Limited", "5411", "001", "MID032345678901"},
		{"Winners", "Winners", "TJX Canada", "5651", "001", "MID038901234567"},
	},
	"GBR": {
		{"Tesco", "Tesco", "Tesco PLC", "5411", "002", "MID040123456789"},
		{"Marks & Spencer", "M&S", "Marks and Spencer Group plc", "5311", "002", "MID043456789012"},
		{"Argos", "Argos", "Sainsbury's Argos", "5399", "002", "MID046789012345"},
	},
	"FRA": {
		{"Leclerc", "Leclerc", "E.Leclerc", "5411", "002", "MID048901234567"},
		{"Monoprix", "Monoprix", "Groupe Casino", "5411", "002", "MID051234567890"},
	},
	"DEU": {
		{"Lidl", "Lidl", "Lidl Stiftung & Co KG", "5411", "002", "MID053456789012"},
		{"Edeka", "Edeka", "Edeka Zentrale AG", "5411", "002", "MID056789012345"},
	},
	"ESP": {
		{"Zara", "Zara", "Inditex SA", "5651", "002", "MID058901234567"},
		{"Mango", "Mango", "Punto Fa SL", "5651", "002", "MID061234567890"},
	},
	"ITA": {
		{"Coop Italia", "Coop", "Coop Italia", "5411", "002", "MID063456789012"},
	},
	"NLD": {
		{"Albert Heijn", "Albert Heijn", "Koninklijke Ahold Delhaize NV", "5411", "002", "MID065678901234"},
	},
	"SWE": {
		{"ICA", "ICA", "ICA Gruppen AB", "5411", "002", "MID070123456789"},
	},
	"CHE": {
		{"Migros", "Migros", "Migros-Genossenschafts-Bund", "5411", "002", "MID072345678901"},
	},
	"JPN": {
		{"7-Eleven Japan", "7-Eleven", "Seven & i Holdings Co", "5499", "003", "MID074567890123"},
		{"Don Quijote", "Don Quijote", "Pan Pacific International Holdings", "5399", "003", "MID077890123456"},
	},
	"AUS": {
		{"JB Hi-Fi", "JB Hi-Fi", "JB Hi-Fi Limited", "5732", "003", "MID082345678901"},
	},
	"SGP": {
		{"Cold Storage", "Cold Storage", "Dairy Farm International", "5411", "003", "MID087890123456"},
	},
	"KOR": {
		{"E-Mart", "E-Mart", "Shinsegae Group", "5411", "003", "MID089012345678"},
	},
	"BRA": {
		{"Pão de Açúcar", "Pão de Açúcar", "Grupo Pão de Açúcar", "5411", "004", "MID091234567890"},
		{"Americanas", "Americanas", "Americanas SA", "5399", "004", "MID094567890123"},
	},
	"MEX": {
		{"Liverpool", "Liverpool", "El Puerto de Liverpool", "5311", "004", "MID096789012345"},
	},
	"ARG": {
		{"Mercado Libre", "MercadoLibre", "MercadoLibre Inc", "5999", "004", "MID098901234567"},
	},
	"CHL": {
		{"Jumbo Chile", "Jumbo", "Cencosud SA", "5411", "004", "MID103456789012"},
	},
	"COL": {
		{"Exito", "Exito", "Almacenes Exito SA", "5411", "004", "MID105678901234"},
	},
	"PER": {
		{"Plaza Vea", "Plaza Vea", "Supermercados Peruanos SA", "5411", "004", "MID107890123456"},
	},
	"ARE": {
		{"Carrefour UAE", "Carrefour", "Majid Al Futtaim Retail", "5411", "005", "MID110123456789"},
		{"Lulu Hypermarket", "Lulu", "LuLu Group International", "5411", "005", "MID111234567890"},
	},
	"ZAF": {
		{"Woolworths SA", "Woolworths", "Woolworths Holdings Limited", "5311", "005", "MID113456789012"},
		{"Pick n Pay", "Pick n Pay", "Pick n Pay Stores Limited", "5411", "005", "MID114567890123"},
	},
}

// MerchantsFor returns the directory entries for a merchant country.
func MerchantsFor(country string) []Merchant {
	if m, ok := merchantsByCountry[country]; ok {
		return m
	}
	return []Merchant{fallbackMerchant}
}

func registerMerchantRules(r *Resolver) {
	field := func(get func(Merchant) string) Rule {
		return lookup(func(d *draw) string {
			merchants := MerchantsFor(d.bl.MerchantCountry)
			return get(merchants[d.rng.IntN(len(merchants))])
		})
	}
	r.register(field(func(m Merchant) string { return m.Name }), "merchant_name")
	r.register(field(func(m Merchant) string { return m.DBA }), "merchant_dba")
	r.register(field(func(m Merchant) string { return m.LegalName }), "merchant_legal_name")
	r.register(field(func(m Merchant) string { return m.MCC }), "merchant_category_code", "merchant_code")
	r.register(field(func(m Merchant) string { return m.RegionCode }), "business_region_code")
	r.register(field(func(m Merchant) string { return m.MID }), "merchant_id")
}
