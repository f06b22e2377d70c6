package contact

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestCanonicalize(t *testing.T) {
	cases := map[string]CanonicalKey{
		"BusinessPhone":  "business_phone",
		"EmailAddress1":  "email_address1",
		"Business":       "business",
		"TtyTddPhone":    "tty_tdd_phone",
		"HTTPServer":     "http_server",
		"ISDN":           "isdn",
		"Phone2Home":     "phone2_home",
		"first name":     "first_name",
		"  --Weird__Key": "weird_key",
		"already_snake":  "already_snake",
		"":               "",
		"!!!":            "",
	}
	for label, want := range cases {
		be.Equal(t, Canonicalize(label), want)
	}
}

func TestCanonicalizeIsStable(t *testing.T) {
	for _, label := range []string{"BusinessPhone", "Home", "CustomSlotName"} {
		first := Canonicalize(label)
		for range 3 {
			be.Equal(t, Canonicalize(label), first)
		}
	}

	phones := flatValues[PhoneMap](map[string]any{"entry": map[string]any{"key": "Home", "text": "1"}})
	addresses := structuredValues(map[string]any{"entry": map[string]any{"key": "Home", "city": map[string]any{"text": "Fargo"}}})
	_, inPhones := phones[Canonicalize("Home")]
	_, inAddresses := addresses[Canonicalize("Home")]
	be.True(t, inPhones)
	be.True(t, inAddresses)
}

func TestLabelTableMatchesSplitRule(t *testing.T) {
	for label, key := range labelKeys {
		be.Equal(t, CanonicalKey(splitLabel(label)), key)
	}
}

func TestLabelReversesTable(t *testing.T) {
	label, ok := Label("mobile_phone")
	be.True(t, ok)
	be.Equal(t, label, "MobilePhone")

	for label, key := range labelKeys {
		got, ok := Label(key)
		be.True(t, ok)
		be.Equal(t, got, label)
	}

	_, ok = Label("custom_slot_name")
	be.True(t, !ok)
}
