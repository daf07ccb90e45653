package geo

// Static reference data: country name ↔ ISO alpha-2 code, alpha-2 →
// continent, and US state abbreviations/names. Loaded once at process start
// via DefaultTables and passed to the resolver at construction; never
// consulted as ambient global state. Lookups are case-sensitive exact match.

// Tables is the immutable lookup structure the resolver works against.
type Tables struct {
	countryAlpha2   map[string]string
	alpha2Country   map[string]string
	alpha2Continent map[string]string
	usStates        map[string]struct{}
}

// DefaultTables builds the process-wide reference tables, deriving the
// code→name reverse index from the name→code map.
func DefaultTables() *Tables {
	t := &Tables{
		countryAlpha2:   countryAlpha2,
		alpha2Continent: alpha2Continent,
		usStates:        usStates,
		alpha2Country:   make(map[string]string, len(countryAlpha2)),
	}
	for name, code := range countryAlpha2 {
		t.alpha2Country[code] = name
	}
	return t
}

// CountryCode returns the alpha-2 code for an exact country name match.
func (t *Tables) CountryCode(name string) (string, bool) {
	code, ok := t.countryAlpha2[name]
	return code, ok
}

// CountryName returns the country name for an alpha-2 code.
func (t *Tables) CountryName(code string) (string, bool) {
	name, ok := t.alpha2Country[code]
	return name, ok
}

// Continent returns the continent for an alpha-2 code.
func (t *Tables) Continent(code string) (string, bool) {
	continent, ok := t.alpha2Continent[code]
	return continent, ok
}

// IsUSState reports whether region is a US state abbreviation or full name.
func (t *Tables) IsUSState(region string) bool {
	_, ok := t.usStates[region]
	return ok
}

var countryAlpha2 = map[string]string{
	// Africa
	"Algeria": "DZ", "Angola": "AO", "Benin": "BJ", "Botswana": "BW",
	"Burkina Faso": "BF", "Burundi": "BI", "Cabo Verde": "CV",
	"Cameroon": "CM", "Central African Republic": "CF", "Chad": "TD",
	"Comoros": "KM", "Congo": "CG", "Democratic Republic of the Congo": "CD",
	"Cote d'Ivoire": "CI", "Djibouti": "DJ", "Egypt": "EG",
	"Equatorial Guinea": "GQ", "Eritrea": "ER", "Eswatini": "SZ",
	"Ethiopia": "ET", "Gabon": "GA", "Gambia": "GM", "Ghana": "GH",
	"Guinea": "GN", "Guinea-Bissau": "GW", "Kenya": "KE", "Lesotho": "LS",
	"Liberia": "LR", "Libya": "LY", "Madagascar": "MG", "Malawi": "MW",
	"Mali": "ML", "Mauritania": "MR", "Mauritius": "MU", "Mayotte": "YT",
	"Morocco": "MA", "Mozambique": "MZ", "Namibia": "NA", "Niger": "NE",
	"Nigeria": "NG", "Reunion": "RE", "Rwanda": "RW",
	"Sao Tome and Principe": "ST", "Senegal": "SN", "Seychelles": "SC",
	"Sierra Leone": "SL", "Somalia": "SO", "South Africa": "ZA",
	"South Sudan": "SS", "Sudan": "SD", "Tanzania": "TZ", "Togo": "TG",
	"Tunisia": "TN", "Uganda": "UG", "Western Sahara": "EH", "Zambia": "ZM",
	"Zimbabwe": "ZW",
	// Asia
	"Afghanistan": "AF", "Armenia": "AM", "Azerbaijan": "AZ", "Bahrain": "BH",
	"Bangladesh": "BD", "Bhutan": "BT", "Brunei": "BN", "Cambodia": "KH",
	"China": "CN", "Cyprus": "CY", "Georgia": "GE", "Hong Kong": "HK",
	"India": "IN", "Indonesia": "ID", "Iran": "IR", "Iraq": "IQ",
	"Israel": "IL", "Japan": "JP", "Jordan": "JO", "Kazakhstan": "KZ",
	"Kuwait": "KW", "Kyrgyzstan": "KG", "Laos": "LA", "Lebanon": "LB",
	"Macau": "MO", "Malaysia": "MY", "Maldives": "MV", "Mongolia": "MN",
	"Myanmar": "MM", "Nepal": "NP", "North Korea": "KP", "Oman": "OM",
	"Pakistan": "PK", "Palestine": "PS", "Philippines": "PH", "Qatar": "QA",
	"Saudi Arabia": "SA", "Singapore": "SG", "South Korea": "KR",
	"Sri Lanka": "LK", "Syria": "SY", "Taiwan": "TW", "Tajikistan": "TJ",
	"Thailand": "TH", "Timor-Leste": "TL", "Turkey": "TR",
	"Turkmenistan": "TM", "United Arab Emirates": "AE", "Uzbekistan": "UZ",
	"Vietnam": "VN", "Yemen": "YE",
	// Europe
	"Albania": "AL", "Andorra": "AD", "Austria": "AT", "Belarus": "BY",
	"Belgium": "BE", "Bosnia and Herzegovina": "BA", "Bulgaria": "BG",
	"Croatia": "HR", "Czechia": "CZ", "Denmark": "DK", "Estonia": "EE",
	"Faroe Islands": "FO", "Finland": "FI", "France": "FR", "Germany": "DE",
	"Gibraltar": "GI", "Greece": "GR", "Hungary": "HU", "Iceland": "IS",
	"Ireland": "IE", "Italy": "IT", "Latvia": "LV", "Liechtenstein": "LI",
	"Lithuania": "LT", "Luxembourg": "LU", "Malta": "MT", "Moldova": "MD",
	"Monaco": "MC", "Montenegro": "ME", "Netherlands": "NL",
	"North Macedonia": "MK", "Norway": "NO", "Poland": "PL", "Portugal": "PT",
	"Romania": "RO", "Russia": "RU", "San Marino": "SM", "Serbia": "RS",
	"Slovakia": "SK", "Slovenia": "SI", "Spain": "ES",
	"Svalbard and Jan Mayen": "SJ", "Sweden": "SE", "Switzerland": "CH",
	"Ukraine": "UA", "United Kingdom": "GB", "Vatican City": "VA",
	// North America
	"Anguilla": "AI", "Antigua and Barbuda": "AG", "Aruba": "AW",
	"Bahamas": "BS", "Barbados": "BB", "Belize": "BZ", "Bermuda": "BM",
	"British Virgin Islands": "VG", "Canada": "CA", "Cayman Islands": "KY",
	"Costa Rica": "CR", "Cuba": "CU", "Curacao": "CW", "Dominica": "DM",
	"Dominican Republic": "DO", "El Salvador": "SV", "Greenland": "GL",
	"Grenada": "GD", "Guadeloupe": "GP", "Guatemala": "GT", "Haiti": "HT",
	"Honduras": "HN", "Jamaica": "JM", "Martinique": "MQ", "Mexico": "MX",
	"Montserrat": "MS", "Nicaragua": "NI", "Panama": "PA",
	"Puerto Rico": "PR", "Saint Barthelemy": "BL",
	"Saint Kitts and Nevis": "KN", "Saint Lucia": "LC", "Saint Martin": "MF",
	"Saint Pierre and Miquelon": "PM",
	"Saint Vincent and the Grenadines": "VC", "Sint Maarten": "SX",
	"Trinidad and Tobago": "TT", "Turks and Caicos Islands": "TC",
	"U.S. Virgin Islands": "VI", "United States": "US",
	// South America
	"Argentina": "AR", "Bolivia": "BO", "Brazil": "BR", "Chile": "CL",
	"Colombia": "CO", "Ecuador": "EC", "Falkland Islands": "FK",
	"French Guiana": "GF", "Guyana": "GY", "Paraguay": "PY", "Peru": "PE",
	"Suriname": "SR", "Uruguay": "UY", "Venezuela": "VE",
	// Oceania
	"American Samoa": "AS", "Australia": "AU", "Cook Islands": "CK",
	"Fiji": "FJ", "French Polynesia": "PF", "Guam": "GU", "Kiribati": "KI",
	"Marshall Islands": "MH", "Micronesia": "FM", "Nauru": "NR",
	"New Caledonia": "NC", "New Zealand": "NZ", "Niue": "NU",
	"Norfolk Island": "NF", "Northern Mariana Islands": "MP", "Palau": "PW",
	"Papua New Guinea": "PG", "Pitcairn": "PN", "Samoa": "WS",
	"Solomon Islands": "SB", "Tokelau": "TK", "Tonga": "TO", "Tuvalu": "TV",
	"Vanuatu": "VU", "Wallis and Futuna": "WF",
	// Antarctica
	"Antarctica": "AQ", "Bouvet Island": "BV",
	"French Southern Territories": "TF",
	"Heard Island and McDonald Islands": "HM",
	"South Georgia and the South Sandwich Islands": "GS",
}

var alpha2Continent = map[string]string{
	// Africa
	"DZ": "Africa", "AO": "Africa", "BJ": "Africa", "BW": "Africa",
	"BF": "Africa", "BI": "Africa", "CV": "Africa", "CM": "Africa",
	"CF": "Africa", "TD": "Africa", "KM": "Africa", "CG": "Africa",
	"CD": "Africa", "CI": "Africa", "DJ": "Africa", "EG": "Africa",
	"GQ": "Africa", "ER": "Africa", "SZ": "Africa", "ET": "Africa",
	"GA": "Africa", "GM": "Africa", "GH": "Africa", "GN": "Africa",
	"GW": "Africa", "KE": "Africa", "LS": "Africa", "LR": "Africa",
	"LY": "Africa", "MG": "Africa", "MW": "Africa", "ML": "Africa",
	"MR": "Africa", "MU": "Africa", "YT": "Africa", "MA": "Africa",
	"MZ": "Africa", "NA": "Africa", "NE": "Africa", "NG": "Africa",
	"RE": "Africa", "RW": "Africa", "ST": "Africa", "SN": "Africa",
	"SC": "Africa", "SL": "Africa", "SO": "Africa", "ZA": "Africa",
	"SS": "Africa", "SD": "Africa", "TZ": "Africa", "TG": "Africa",
	"TN": "Africa", "UG": "Africa", "EH": "Africa", "ZM": "Africa",
	"ZW": "Africa",
	// Asia
	"AF": "Asia", "AM": "Asia", "AZ": "Asia", "BH": "Asia", "BD": "Asia",
	"BT": "Asia", "BN": "Asia", "KH": "Asia", "CN": "Asia", "CY": "Asia",
	"GE": "Asia", "HK": "Asia", "IN": "Asia", "ID": "Asia", "IR": "Asia",
	"IQ": "Asia", "IL": "Asia", "JP": "Asia", "JO": "Asia", "KZ": "Asia",
	"KW": "Asia", "KG": "Asia", "LA": "Asia", "LB": "Asia", "MO": "Asia",
	"MY": "Asia", "MV": "Asia", "MN": "Asia", "MM": "Asia", "NP": "Asia",
	"KP": "Asia", "OM": "Asia", "PK": "Asia", "PS": "Asia", "PH": "Asia",
	"QA": "Asia", "SA": "Asia", "SG": "Asia", "KR": "Asia", "LK": "Asia",
	"SY": "Asia", "TW": "Asia", "TJ": "Asia", "TH": "Asia", "TL": "Asia",
	"TR": "Asia", "TM": "Asia", "AE": "Asia", "UZ": "Asia", "VN": "Asia",
	"YE": "Asia",
	// Europe
	"AL": "Europe", "AD": "Europe", "AT": "Europe", "BY": "Europe",
	"BE": "Europe", "BA": "Europe", "BG": "Europe", "HR": "Europe",
	"CZ": "Europe", "DK": "Europe", "EE": "Europe", "FO": "Europe",
	"FI": "Europe", "FR": "Europe", "DE": "Europe", "GI": "Europe",
	"GR": "Europe", "HU": "Europe", "IS": "Europe", "IE": "Europe",
	"IT": "Europe", "LV": "Europe", "LI": "Europe", "LT": "Europe",
	"LU": "Europe", "MT": "Europe", "MD": "Europe", "MC": "Europe",
	"ME": "Europe", "NL": "Europe", "MK": "Europe", "NO": "Europe",
	"PL": "Europe", "PT": "Europe", "RO": "Europe", "RU": "Europe",
	"SM": "Europe", "RS": "Europe", "SK": "Europe", "SI": "Europe",
	"ES": "Europe", "SJ": "Europe", "SE": "Europe", "CH": "Europe",
	"UA": "Europe", "GB": "Europe", "VA": "Europe",
	// North America
	"AI": "North America", "AG": "North America", "AW": "North America",
	"BS": "North America", "BB": "North America", "BZ": "North America",
	"BM": "North America", "VG": "North America", "CA": "North America",
	"KY": "North America", "CR": "North America", "CU": "North America",
	"CW": "North America", "DM": "North America", "DO": "North America",
	"SV": "North America", "GL": "North America", "GD": "North America",
	"GP": "North America", "GT": "North America", "HT": "North America",
	"HN": "North America", "JM": "North America", "MQ": "North America",
	"MX": "North America", "MS": "North America", "NI": "North America",
	"PA": "North America", "PR": "North America", "BL": "North America",
	"KN": "North America", "LC": "North America", "MF": "North America",
	"PM": "North America", "VC": "North America", "SX": "North America",
	"TT": "North America", "TC": "North America", "VI": "North America",
	"US": "North America",
	// South America
	"AR": "South America", "BO": "South America", "BR": "South America",
	"CL": "South America", "CO": "South America", "EC": "South America",
	"FK": "South America", "GF": "South America", "GY": "South America",
	"PY": "South America", "PE": "South America", "SR": "South America",
	"UY": "South America", "VE": "South America",
	// Oceania
	"AS": "Oceania", "AU": "Oceania", "CK": "Oceania", "FJ": "Oceania",
	"PF": "Oceania", "GU": "Oceania", "KI": "Oceania", "MH": "Oceania",
	"FM": "Oceania", "NR": "Oceania", "NC": "Oceania", "NZ": "Oceania",
	"NU": "Oceania", "NF": "Oceania", "MP": "Oceania", "PW": "Oceania",
	"PG": "Oceania", "PN": "Oceania", "WS": "Oceania", "SB": "Oceania",
	"TK": "Oceania", "TO": "Oceania", "TV": "Oceania", "VU": "Oceania",
	"WF": "Oceania",
	// Antarctica
	"AQ": "Antarctica", "BV": "Antarctica", "TF": "Antarctica",
	"HM": "Antarctica", "GS": "Antarctica",
}

var usStates = stateSet(
	"AL", "Alabama", "AK", "Alaska", "AZ", "Arizona", "AR", "Arkansas",
	"CA", "California", "CO", "Colorado", "CT", "Connecticut",
	"DE", "Delaware", "FL", "Florida", "GA", "Georgia", "HI", "Hawaii",
	"ID", "Idaho", "IL", "Illinois", "IN", "Indiana", "IA", "Iowa",
	"KS", "Kansas", "KY", "Kentucky", "LA", "Louisiana", "ME", "Maine",
	"MD", "Maryland", "MA", "Massachusetts", "MI", "Michigan",
	"MN", "Minnesota", "MS", "Mississippi", "MO", "Missouri",
	"MT", "Montana", "NE", "Nebraska", "NV", "Nevada",
	"NH", "New Hampshire", "NJ", "New Jersey", "NM", "New Mexico",
	"NY", "New York", "NC", "North Carolina", "ND", "North Dakota",
	"OH", "Ohio", "OK", "Oklahoma", "OR", "Oregon", "PA", "Pennsylvania",
	"RI", "Rhode Island", "SC", "South Carolina", "SD", "South Dakota",
	"TN", "Tennessee", "TX", "Texas", "UT", "Utah", "VT", "Vermont",
	"VA", "Virginia", "WA", "Washington", "WV", "West Virginia",
	"WI", "Wisconsin", "WY", "Wyoming", "DC", "District of Columbia",
)

func stateSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
