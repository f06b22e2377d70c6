package contact

import (
	"testing"

	"github.com/nalgeon/be"
)

func sampleTree() map[string]any {
	return map[string]any{
		"item_id":    map[string]any{"id": "AAMkAD=", "change_key": "EQAAAB"},
		"given_name": map[string]any{"text": "Dan"},
		"surname":    map[string]any{"text": "Wanek"},
		"job_title":  map[string]any{"text": "Systems Architect"},
		"complete_name": map[string]any{
			"first_name": map[string]any{"text": "Dan"},
			"full_name":  map[string]any{"text": "Dan Wanek"},
		},
		"email_addresses": map[string]any{
			"entry": []any{
				map[string]any{"key": "EmailAddress1", "text": "myemail@work.com"},
				map[string]any{"key": "EmailAddress2", "text": "myemail@home.com"},
				map[string]any{"key": "EmailAddress3"},
			},
		},
		"phone_numbers": map[string]any{
			"entry": map[string]any{"key": "BusinessPhone", "text": "7012220000"},
		},
		"physical_addresses": map[string]any{
			"entry": []any{
				map[string]any{
					"key":    "Business",
					"street": map[string]any{"text": "6343 N Baltimore"},
					"city":   map[string]any{"text": "Bismarck"},
					"state":  map[string]any{"text": "ND"},
				},
				map[string]any{"key": "Home"},
			},
		},
	}
}

func TestEntriesNormalizesSingleAndSequence(t *testing.T) {
	single := map[string]any{"entry": map[string]any{"key": "MobilePhone", "text": "555"}}
	sequence := map[string]any{"entry": []any{map[string]any{"key": "MobilePhone", "text": "555"}}}

	be.Equal(t, len(Entries(single)), 1)
	be.Equal(t, Entries(single), Entries(sequence))
	be.Equal(t, flatValues[PhoneMap](single), flatValues[PhoneMap](sequence))
	be.Equal(t, structuredValues(single), structuredValues(sequence))

	typed := map[string]any{"entry": []map[string]any{{"key": "MobilePhone", "text": "555"}}}
	be.Equal(t, flatValues[PhoneMap](typed), PhoneMap{"mobile_phone": "555"})

	be.Equal(t, len(Entries(nil)), 0)
	be.Equal(t, len(Entries("bogus")), 0)
	be.Equal(t, len(Entries(map[string]any{"entry": []any{"bogus", nil}})), 0)
}

func TestMalformedEntriesAreSkipped(t *testing.T) {
	fragment := map[string]any{"entry": []any{
		map[string]any{"key": "EmailAddress1"},
		map[string]any{"text": "no-label@example.com"},
		map[string]any{"key": "EmailAddress2", "text": ""},
	}}
	be.Equal(t, flatValues[KeyedMap](fragment), KeyedMap{"email_address2": ""})

	addresses := map[string]any{"entry": map[string]any{"key": "Home"}}
	be.Equal(t, len(structuredValues(addresses)), 0)
}

func TestEntryWithoutTextMapsToEmptyString(t *testing.T) {
	fragment := map[string]any{"entry": map[string]any{"key": "Pager", "extra": "x"}}
	be.Equal(t, flatValues[PhoneMap](fragment), PhoneMap{"pager": ""})
}

func TestNonStringTextIsFormatted(t *testing.T) {
	fragment := map[string]any{"entry": []any{
		map[string]any{"key": "HomePhone", "text": 7012220000},
		map[string]any{"key": "CarPhone", "text": nil},
	}}
	be.Equal(t, flatValues[PhoneMap](fragment), PhoneMap{"home_phone": "7012220000", "car_phone": ""})
}

func TestCanonicalizationCollisionLastWriteWins(t *testing.T) {
	fragment := map[string]any{"entry": []any{
		map[string]any{"key": "business_phone", "text": "first"},
		map[string]any{"key": "BusinessPhone", "text": "second"},
	}}
	be.Equal(t, flatValues[PhoneMap](fragment), PhoneMap{"business_phone": "second"})
}

func TestDecodeCollections(t *testing.T) {
	c := New(sampleTree())

	emails, ok := c.EmailAddresses()
	be.True(t, ok)
	be.Equal(t, emails, KeyedMap{
		"email_address1": "myemail@work.com",
		"email_address2": "myemail@home.com",
	})

	phones, ok := c.PhoneNumbers()
	be.True(t, ok)
	be.Equal(t, phones, PhoneMap{"business_phone": "7012220000"})

	addresses, ok := c.PhysicalAddresses()
	be.True(t, ok)
	be.Equal(t, addresses, StructuredMap{
		"business": {"street": "6343 N Baltimore", "city": "Bismarck", "state": "ND"},
	})

	_, ok = c.IMAddresses()
	be.True(t, !ok)
	be.Equal(t, c.Unavailable(), []Field{FieldIMAddresses})
}

func TestDecodeIsIdempotent(t *testing.T) {
	tree := sampleTree()
	c := New(tree)

	first, ok := c.EmailAddresses()
	be.True(t, ok)

	tree["email_addresses"] = map[string]any{
		"entry": map[string]any{"key": "EmailAddress1", "text": "changed@example.com"},
	}
	c.Decode()

	second, _ := c.EmailAddresses()
	be.Equal(t, second, first)
	be.Equal(t, second["email_address1"], "myemail@work.com")
}

func TestEmptyCollectionIsAvailable(t *testing.T) {
	c := New(map[string]any{
		"phone_numbers": map[string]any{"entry": []any{
			map[string]any{"key": "HomePhone"},
			map[string]any{"key": "MobilePhone"},
		}},
	})

	phones, ok := c.PhoneNumbers()
	be.True(t, ok)
	be.Equal(t, len(phones), 0)
	be.True(t, c.Available(FieldPhoneNumbers))
}

func TestMissingFieldIsUnavailable(t *testing.T) {
	c := New(map[string]any{"given_name": map[string]any{"text": "Dan"}})

	phones, ok := c.PhoneNumbers()
	be.True(t, !ok)
	be.True(t, phones == nil)
	be.True(t, !c.Available(FieldPhoneNumbers))
	be.True(t, c.Available(FieldGivenName))
	be.Equal(t, c.Unavailable(), []Field{
		FieldEmailAddresses,
		FieldIMAddresses,
		FieldPhoneNumbers,
		FieldPhysicalAddresses,
	})
}

func TestKeyedRejectsStructuredField(t *testing.T) {
	c := New(sampleTree())

	_, ok := c.Keyed(FieldPhysicalAddresses)
	be.True(t, !ok)
	_, ok = c.Structured(FieldEmailAddresses)
	be.True(t, !ok)

	phones, ok := c.Keyed(FieldPhoneNumbers)
	be.True(t, ok)
	be.Equal(t, phones["business_phone"], "7012220000")
}

func TestDetails(t *testing.T) {
	tree := sampleTree()
	tree["company_name"] = "Test Company"
	c := New(tree)

	details, err := c.Details()
	be.Err(t, err, nil)
	be.Equal(t, details.ItemID, "AAMkAD=")
	be.Equal(t, details.ChangeKey, "EQAAAB")
	be.Equal(t, details.GivenName, "Dan")
	be.Equal(t, details.Surname, "Wanek")
	be.Equal(t, details.JobTitle, "Systems Architect")
	be.Equal(t, details.CompanyName, "Test Company")
	be.Equal(t, details.CompleteName.FullName, "Dan Wanek")
	be.Equal(t, details.CompleteName.LastName, "")
	be.Equal(t, c.ItemID(), "AAMkAD=")
}

func TestNewWithNilTree(t *testing.T) {
	c := New(nil)
	be.True(t, c.Raw() != nil)
	be.Equal(t, c.ItemID(), "")
	be.Equal(t, c.TypeTag(), "contact")

	details, err := c.Details()
	be.Err(t, err, nil)
	be.Equal(t, details, Details{})
}
