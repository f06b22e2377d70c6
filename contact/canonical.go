package contact

import "strings"

// CanonicalKey is the lowercase, underscore-delimited identifier derived from
// a service-defined entry label (for example "BusinessPhone" becomes
// "business_phone").
type CanonicalKey string

// labelKeys enumerates every dictionary label the service defines for
// contact entries. Labels outside this table go through splitLabel.
var labelKeys = map[string]CanonicalKey{
	// EmailAddressKey
	"EmailAddress1": "email_address1",
	"EmailAddress2": "email_address2",
	"EmailAddress3": "email_address3",

	// ImAddressKey
	"ImAddress1": "im_address1",
	"ImAddress2": "im_address2",
	"ImAddress3": "im_address3",

	// PhysicalAddressKey
	"Business": "business",
	"Home":     "home",
	"Other":    "other",

	// PhoneNumberKey
	"AssistantPhone":   "assistant_phone",
	"BusinessFax":      "business_fax",
	"BusinessPhone":    "business_phone",
	"BusinessPhone2":   "business_phone2",
	"Callback":         "callback",
	"CarPhone":         "car_phone",
	"CompanyMainPhone": "company_main_phone",
	"HomeFax":          "home_fax",
	"HomePhone":        "home_phone",
	"HomePhone2":       "home_phone2",
	"Isdn":             "isdn",
	"MobilePhone":      "mobile_phone",
	"OtherFax":         "other_fax",
	"OtherTelephone":   "other_telephone",
	"Pager":            "pager",
	"PrimaryPhone":     "primary_phone",
	"RadioPhone":       "radio_phone",
	"Telex":            "telex",
	"TtyTddPhone":      "tty_tdd_phone",
}

var keyLabels = func() map[CanonicalKey]string {
	out := make(map[CanonicalKey]string, len(labelKeys))
	for label, key := range labelKeys {
		out[key] = label
	}
	return out
}()

// Canonicalize converts an entry label into its CanonicalKey. It never fails:
// any label, however unexpected, produces some key.
func Canonicalize(label string) CanonicalKey {
	if key, ok := labelKeys[label]; ok {
		return key
	}
	return CanonicalKey(splitLabel(label))
}

// Label returns the service label a CanonicalKey was derived from, for keys
// known to the label table.
func Label(key CanonicalKey) (string, bool) {
	label, ok := keyLabels[key]
	return label, ok
}

// splitLabel lowercases a camel-style label, starting a new word at an
// upper-case letter that follows a lower-case letter or digit, or that ends an
// acronym ("HTTPServer" -> "http_server"). Any other non-alphanumeric byte
// separates words.
func splitLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label) + 4)

	pendingSep := false
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isAlnum(c) {
			pendingSep = b.Len() > 0
			continue
		}
		if isUpper(c) && b.Len() > 0 {
			prev := label[i-1]
			nextLower := i+1 < len(label) && isLower(label[i+1])
			if isLower(prev) || isDigit(prev) || (isUpper(prev) && nextLower) {
				pendingSep = true
			}
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		if isUpper(c) {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isUpper(c) || isLower(c) || isDigit(c) }
