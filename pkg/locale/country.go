package locale

// HomeRegion is the yard's home region, used as the fallback parse region for
// phone numbers entered without a dialing prefix.
const HomeRegion = "GB"

type Country struct {
	Code          string // ISO 3166-1 alpha-2 code
	Name          string
	PhonePrefixes []string // dialing prefixes, with and without the plus
}

var Countries = map[string]Country{
	"GB": {
		Code:          "GB",
		Name:          "United Kingdom",
		PhonePrefixes: []string{"+44", "44"},
	},
	"IE": {
		Code:          "IE",
		Name:          "Ireland",
		PhonePrefixes: []string{"+353", "353"},
	},
	"US": {
		Code:          "US",
		Name:          "United States",
		PhonePrefixes: []string{"+1", "1"},
	},
}
