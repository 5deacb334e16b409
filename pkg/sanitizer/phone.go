package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"paddock/pkg/locale"
)

// NormalizePhone converts a guest contact number to E.164. The parse region
// is inferred from the dialing prefix where present, falling back to the
// yard's home region. Returns "" when the number cannot be parsed.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	regions := []string{locale.HomeRegion}
	if c := locale.InferCountryFromPhone(phone); c != nil {
		regions = append([]string{c.Code}, regions...)
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
