package generator

import (
	"fmt"
)

var citiesByCountry = map[string][]string{
	"USA": {"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"},
	"CAN": {"Toronto", "Vancouver", "Montreal", "Calgary", "Ottawa"},
	"GBR": {"London", "Manchester", "Birmingham", "Liverpool", "Leeds"},
	"DEU": {"Berlin", "Munich", "Hamburg", "Cologne", "Frankfurt"},
	"FRA": {"Paris", "Lyon", "Marseille", "Toulouse", "Nice"},
	"AUS": {"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide"},
	"JPN": {"Tokyo", "Osaka", "Kyoto", "Yokohama", "Nagoya"},
	"ITA": {"Rome", "Milan", "Naples", "Turin", "Florence"},
	"ESP": {"Madrid", "Barcelona", "Valencia", "Seville", "Bilbao"},
	"NLD": {"Amsterdam", "Rotterdam", "The Hague", "Utrecht", "Eindhoven"},
	"BEL": {"Brussels", "Antwerp", "Ghent", "Charleroi", "Liege"},
	"CHE": {"Zurich", "Geneva", "Basel", "Bern", "Lausanne"},
	"AUT": {"Vienna", "Salzburg", "Innsbruck", "Graz", "Linz"},
	"SWE": {"Stockholm", "Gothenburg", "Malmo", "Uppsala", "Vasteras"},
	"NOR": {"Oslo", "Bergen", "Trondheim", "Stavanger", "Drammen"},
	"DNK": {"Copenhagen", "Aarhus", "Odense", "Aalborg", "Esbjerg"},
	"FIN": {"Helsinki", "Espoo", "Tampere", "Vantaa", "Turku"},
	"IRL": {"Dublin", "Cork", "Limerick", "Galway", "Waterford"},
	"PRT": {"Lisbon", "Porto", "Vila Nova de Gaia", "Amadora", "Braga"},
	"GRC": {"Athens", "Thessaloniki", "Patras", "Heraklion", "Larissa"},
	"POL": {"Warsaw", "Krakow", "Lodz", "Wroclaw", "Poznan"},
	"CZE": {"Prague", "Brno", "Ostrava", "Plzen", "Liberec"},
	"HUN": {"Budapest", "Debrecen", "Szeged", "Miskolc", "Pecs"},
	"SVK": {"Bratislava", "Kosice", "Presov", "Zilina", "Banska Bystrica"},
	"SVN": {"Ljubljana", "Maribor", "Celje", "Kranj", "Velenje"},
	"EST": {"Tallinn", "Tartu", "Narva", "Parnu", "Kohtla-Jarve"},
	"LVA": {"Riga", "Daugavpils", "Liepaja", "Jelgava", "Jurmala"},
	"LTU": {"Vilnius", "Kaunas", "Klaipeda", "Siauliai", "Panevezys"},
	"BGR": {"Sofia", "Plovdiv", "Varna", "Burgas", "Ruse"},
	"ROU": {"Bucharest", "Cluj-Napoca", "Timisoara", "Iasi", "Constanta"},
	"HRV": {"Zagreb", "Split", "Rijeka", "Osijek", "Zadar"},
	"MEX": {"Mexico City", "Guadalajara", "Monterrey", "Puebla", "Tijuana"},
	"BRA": {"Sao Paulo", "Rio de Janeiro", "Brasilia", "Salvador", "Fortaleza"},
	"ARG": {"Buenos Aires", "Cordoba", "Rosario", "Mendoza", "La Plata"},
	"CHL": {"Santiago", "Valparaiso", "Concepcion", "La Serena", "Antofagasta"},
	"COL": {"Bogota", "Medellin", "Cali", "Barranquilla", "Cartagena"},
	"PER": {"Lima", "Arequipa", "Trujillo", "Chiclayo", "Huancayo"},
	"VEN": {"Caracas", "Maracaibo", "Valencia", "Barquisimeto", "Maracay"},
	"URY": {"Montevideo", "Salto", "Paysandu", "Las Piedras", "Rivera"},
	"PRY": {"Asuncion", "Ciudad del Este", "San Lorenzo", "Luque", "Capiata"},
	"BOL": {"La Paz", "Santa Cruz", "Cochabamba", "Sucre", "Oruro"},
	"ECU": {"Quito", "Guayaquil", "Cuenca", "Santo Domingo", "Machala"},
	"GUY": {"Georgetown", "Linden", "New Amsterdam", "Anna Regina", "Bartica"},
	"SUR": {"Paramaribo", "Lelydorp", "Brokopondo", "Nieuw Nickerie", "Moengo"},
	"GUF": {"Cayenne", "Saint-Laurent-du-Maroni", "Kourou", "Remire-Montjoly", "Matoury"},
}

var statesByCountry = map[string][]string{
	"USA": {"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"},
	"CAN": {"ON", "QC", "BC", "AB", "MB", "SK", "NS", "NB", "NL", "PE"},
	"AUS": {"NSW", "VIC", "QLD", "WA", "SA", "TAS", "ACT", "NT"},
	"MEX": {"CDMX", "JAL", "NL", "PUE", "BC", "VER", "GTO", "MICH", "CHIH", "OAX"},
	"BRA": {"SP", "RJ", "MG", "BA", "PR", "RS", "PE", "CE", "PA", "SC"},
	"DEU": {"BY", "BW", "NW", "NI", "HE", "SN", "RP", "TH", "SH", "HH"},
	"ITA": {"LOM", "LAZ", "CAM", "SIC", "VEN", "EMR", "PIE", "PUG", "TOS", "CAL"},
	"ESP": {"AND", "CAT", "MAD", "VAL", "GAL", "CAS", "PVA", "CAN", "MUR", "EXT"},
	"COL": {"BOG", "ANT", "VAL", "ATL", "SAN", "BOL", "CUN", "NOR", "COR", "HUI"},
	"PER": {"LIM", "ARE", "LAL", "LAM", "CUS", "JUN", "PIU", "ANC", "HUC", "ICA"},
}

// shippingCountries is the destination draw table for shipping addresses.
var shippingCountries = []string{
	"USA", "CAN", "GBR", "DEU", "FRA", "AUS", "JPN", "ITA", "ESP", "NLD", "BEL", "CHE",
	"AUT", "SWE", "NOR", "DNK", "FIN", "IRL", "PRT", "GRC", "POL", "CZE", "HUN", "SVK",
	"SVN", "EST", "LVA", "LTU", "LUX", "MLT", "CYP", "BGR", "ROU", "HRV", "MEX", "BRA",
	"ARG", "CHL", "COL", "PER", "VEN", "URY", "PRY", "BOL", "ECU", "GUY", "SUR", "GUF",
}

const (
	ukLetters  = "ABCDEFGHJKLMNOPQRSTUVWXYZ"
	caLetters  = "ABCEGHJKLMNPRSTVXY"
	nlLetters  = "ABCDEFGHJKLMNPRSTVWXZ"
	irlLetters = "ACDEFHKNPRTVWXY"
)

func letter(g *Rand, alphabet string) byte {
	return alphabet[g.IntN(len(alphabet))]
}

func city(g *Rand, country string) string {
	cities, ok := citiesByCountry[country]
	if !ok {
		cities = citiesByCountry["USA"]
	}
	return cities[g.IntN(len(cities))]
}

func state(g *Rand, country string) string {
	states, ok := statesByCountry[country]
	if !ok {
		return "N/A"
	}
	return states[g.IntN(len(states))]
}

// postCode renders a postal code in the country's format.
func postCode(g *Rand, country string) string {
	switch country {
	case "CAN":
		return fmt.Sprintf("%c%d%c %d%c%d",
			letter(g, caLetters), g.IntRange(0, 10), letter(g, caLetters),
			g.IntRange(0, 10), letter(g, caLetters), g.IntRange(0, 10))
	case "GBR":
		return fmt.Sprintf("%c%c%d %d%c%c",
			letter(g, ukLetters), letter(g, ukLetters), g.IntRange(1, 10),
			g.IntRange(0, 10), letter(g, ukLetters), letter(g, ukLetters))
	case "NLD":
		return fmt.Sprintf("%04d %c%c", g.IntRange(1000, 9999), letter(g, nlLetters), letter(g, nlLetters))
	case "IRL":
		return fmt.Sprintf("%c%02d %c%c%02d",
			letter(g, irlLetters), g.IntRange(10, 99), letter(g, irlLetters), letter(g, irlLetters), g.IntRange(10, 99))
	case "JPN":
		return fmt.Sprintf("%03d-%04d", g.IntRange(100, 999), g.IntRange(1000, 9999))
	case "BRA":
		return fmt.Sprintf("%05d-%03d", g.IntRange(10000, 99999), g.IntRange(100, 999))
	case "PRT":
		return fmt.Sprintf("%04d-%03d", g.IntRange(1000, 9999), g.IntRange(100, 999))
	case "POL":
		return fmt.Sprintf("%02d-%03d", g.IntRange(10, 99), g.IntRange(100, 999))
	case "SWE", "CZE", "SVK":
		return fmt.Sprintf("%03d %02d", g.IntRange(100, 999), g.IntRange(10, 99))
	case "AUS", "BEL", "CHE", "NOR", "DNK", "ARG", "HUN":
		return fmt.Sprintf("%04d", g.IntRange(1000, 9999))
	case "CHL":
		return fmt.Sprintf("%07d", g.IntRange(1000000, 9999999))
	case "COL", "ECU":
		return fmt.Sprintf("%06d", g.IntRange(100000, 999999))
	default:
		return fmt.Sprintf("%05d", g.IntRange(10000, 99999))
	}
}

func registerAddressRules(r *Resolver) {
	r.register(echo(func(d *draw) string { return d.bl.IssuerCountry }), "bill_addr_country")
	r.register(lookup(func(d *draw) string { return city(d.rng, d.bl.IssuerCountry) }), "bill_addr_city")
	r.register(categorical(func(d *draw) string {
		return fmt.Sprintf("%d Billing St", d.rng.IntRange(100, 9999))
	}), "bill_addr_line", "bill_addr_line1")
	r.register(lookup(func(d *draw) string { return postCode(d.rng, d.bl.IssuerCountry) }), "bill_addr_post_code")
	r.register(lookup(func(d *draw) string { return state(d.rng, d.bl.IssuerCountry) }), "bill_addr_state")

	// every shipping field draws the destination first so one row agrees on it
	shipping := func(fn func(d *draw, country string) string) Rule {
		return lookup(func(d *draw) string {
			country := shippingCountries[d.rng.IntN(len(shippingCountries))]
			return fn(d, country)
		})
	}
	r.register(shipping(func(_ *draw, country string) string { return country }), "ship_addr_country")
	r.register(shipping(func(d *draw, country string) string { return city(d.rng, country) }), "ship_addr_city")
	r.register(shipping(func(d *draw, _ string) string {
		return fmt.Sprintf("%d Shipping St", d.rng.IntRange(100, 9999))
	}), "ship_addr_line1")
	r.register(shipping(func(d *draw, _ string) string {
		if d.rng.Chance(0.3) {
			return fmt.Sprintf("Unit %d", d.rng.IntRange(1, 999))
		}
		return ""
	}), "ship_addr_line2")
	r.register(shipping(func(_ *draw, _ string) string { return "" }), "ship_addr_line3")
	r.register(shipping(func(d *draw, country string) string { return postCode(d.rng, country) }), "ship_addr_post_code")
	r.register(shipping(func(d *draw, country string) string { return state(d.rng, country) }), "ship_addr_state")
}
