package businesscard

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/spachava753/groupware/contact"
)

// MediaType is the content type of an encoded business card.
const MediaType = "text/vcard"

// ParamLabel carries the service label ("BusinessPhone2", "ImAddress3") on
// EMAIL, IMPP, TEL and ADR fields. Cards written by New always set it; cards
// from elsewhere fall back to TYPE matching.
const ParamLabel = "X-GROUPWARE-LABEL"

// paramDerived marks an FN value that was built from other name fields and
// is not the contact's display name.
const paramDerived = "X-GROUPWARE-DERIVED"

// Extension properties for scalar fields vCard has no slot for.
const (
	fieldFileAs        = "X-GROUPWARE-FILE-AS"
	fieldFileAsMapping = "X-GROUPWARE-FILE-AS-MAPPING"
	fieldFirstName     = "X-GROUPWARE-FIRST-NAME"
	fieldMiddleName    = "X-GROUPWARE-MIDDLE-NAME"
	fieldLastName      = "X-GROUPWARE-LAST-NAME"
	fieldInitials      = "X-GROUPWARE-INITIALS"
	fieldFullName      = "X-GROUPWARE-FULL-NAME"
)

var imSlots = []string{"ImAddress1", "ImAddress2", "ImAddress3"}

// emailTypes maps email slots to vCard TYPE values and back.
var emailTypes = []struct {
	Key   contact.CanonicalKey
	Label string
	Type  string
}{
	{Key: "email_address1", Label: "EmailAddress1", Type: "work"},
	{Key: "email_address2", Label: "EmailAddress2", Type: "home"},
	{Key: "email_address3", Label: "EmailAddress3", Type: "other"},
}

// phoneTypes maps phone labels to vCard TYPE values. The first label listed
// for a TYPE set wins when parsing a card without labels.
var phoneTypes = []struct {
	Label string
	Types []string
}{
	{Label: "BusinessPhone", Types: []string{"work", "voice"}},
	{Label: "BusinessPhone2", Types: []string{"work", "voice"}},
	{Label: "HomePhone", Types: []string{"home", "voice"}},
	{Label: "HomePhone2", Types: []string{"home", "voice"}},
	{Label: "MobilePhone", Types: []string{"cell"}},
	{Label: "BusinessFax", Types: []string{"work", "fax"}},
	{Label: "HomeFax", Types: []string{"home", "fax"}},
	{Label: "OtherFax", Types: []string{"fax"}},
	{Label: "Pager", Types: []string{"pager"}},
	{Label: "CarPhone", Types: []string{"car"}},
	{Label: "AssistantPhone", Types: []string{"x-assistant"}},
	{Label: "CompanyMainPhone", Types: []string{"work", "pref"}},
	{Label: "PrimaryPhone", Types: []string{"pref"}},
	{Label: "TtyTddPhone", Types: []string{"textphone"}},
	{Label: "Callback", Types: []string{"x-callback"}},
	{Label: "Isdn", Types: []string{"x-isdn"}},
	{Label: "RadioPhone", Types: []string{"x-radio"}},
	{Label: "Telex", Types: []string{"x-telex"}},
	{Label: "OtherTelephone", Types: []string{"voice"}},
}

// addressTypes maps address labels to vCard TYPE values.
var addressTypes = map[string]string{
	"Business": "work",
	"Home":     "home",
	"Other":    "other",
}

// New renders a contact as a vCard 4.0 card.
func New(c *contact.Contact) (vcard.Card, error) {
	if c == nil {
		return nil, errors.New("businesscard: contact is required")
	}
	details, err := c.Details()
	if err != nil {
		return nil, fmt.Errorf("businesscard: reading contact details failed: %w", err)
	}

	card := vcard.Card{}
	card.SetValue(vcard.FieldVersion, "4.0")
	if details.ItemID != "" {
		card.SetValue(vcard.FieldUID, details.ItemID)
	}
	card.SetName(&vcard.Name{
		FamilyName: details.Surname,
		GivenName:  details.GivenName,
	})

	emails, _ := c.EmailAddresses()
	formatted := &vcard.Field{Value: details.DisplayName, Params: vcard.Params{}}
	if details.DisplayName == "" {
		formatted.Value = firstNonEmpty(
			details.CompleteName.FullName,
			strings.TrimSpace(details.GivenName+" "+details.Surname),
			details.FileAs,
			emails["email_address1"],
		)
		formatted.Params.Add(paramDerived, "true")
	}
	card.Set(vcard.FieldFormattedName, formatted)

	for name, value := range map[string]string{
		vcard.FieldOrganization: details.CompanyName,
		vcard.FieldTitle:        details.JobTitle,
		fieldFileAs:             details.FileAs,
		fieldFileAsMapping:      details.FileAsMapping,
		fieldFirstName:          details.CompleteName.FirstName,
		fieldMiddleName:         details.CompleteName.MiddleName,
		fieldLastName:           details.CompleteName.LastName,
		fieldInitials:           details.CompleteName.Initials,
		fieldFullName:           details.CompleteName.FullName,
	} {
		if value != "" {
			card.SetValue(name, value)
		}
	}

	for _, key := range sortedKeys(emails) {
		value := emails[key]
		if value == "" {
			continue
		}
		card.Add(vcard.FieldEmail, labeled(typedField(value, emailTypeFor(key)...), labelFor(key)))
	}

	ims, _ := c.IMAddresses()
	for _, key := range sortedKeys(ims) {
		if value := ims[key]; value != "" {
			card.Add(vcard.FieldIMPP, labeled(&vcard.Field{Value: value, Params: vcard.Params{}}, labelFor(key)))
		}
	}

	phones, _ := c.PhoneNumbers()
	for _, key := range sortedKeys(phones) {
		value := phones[key]
		if value == "" {
			continue
		}
		card.Add(vcard.FieldTelephone, labeled(typedField(value, phoneTypesFor(key)...), labelFor(key)))
	}

	addresses, _ := c.PhysicalAddresses()
	for _, key := range sortedKeys(addresses) {
		components := addresses[key]
		label := labelFor(key)
		addressType := addressTypes[label]
		if addressType == "" {
			addressType = string(key)
		}
		card.AddAddress(&vcard.Address{
			Field:         labeled(typedField("", addressType), label),
			StreetAddress: components["street"],
			Locality:      components["city"],
			Region:        components["state"],
			PostalCode:    components["postal_code"],
			Country:       components["country_or_region"],
		})
	}

	return card, nil
}

// Encode writes the contact as one vCard.
func Encode(w io.Writer, c *contact.Contact) error {
	card, err := New(c)
	if err != nil {
		return err
	}
	if err := vcard.NewEncoder(w).Encode(card); err != nil {
		return fmt.Errorf("businesscard: encoding vcard failed: %w", err)
	}
	return nil
}

// Decode reads every card from r and converts each into a contact draft.
func Decode(r io.Reader) ([]contact.Draft, error) {
	dec := vcard.NewDecoder(r)
	drafts := make([]contact.Draft, 0, 1)
	for {
		card, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("businesscard: decoding vcard failed: %w", err)
		}
		drafts = append(drafts, Draft(card))
	}
	return drafts, nil
}

// Draft converts a card into a contact draft. A field's ParamLabel wins;
// otherwise its TYPE parameters choose a free service label. Values that do
// not fit a free label are dropped.
func Draft(card vcard.Card) contact.Draft {
	draft := contact.Draft{
		CompanyName:   card.Value(vcard.FieldOrganization),
		JobTitle:      card.Value(vcard.FieldTitle),
		FileAs:        card.Value(fieldFileAs),
		FileAsMapping: card.Value(fieldFileAsMapping),
		CompleteName: contact.CompleteName{
			FirstName:  card.Value(fieldFirstName),
			MiddleName: card.Value(fieldMiddleName),
			LastName:   card.Value(fieldLastName),
			Initials:   card.Value(fieldInitials),
			FullName:   card.Value(fieldFullName),
		},
	}
	if formatted := card.Get(vcard.FieldFormattedName); formatted != nil && paramValue(formatted, paramDerived) == "" {
		draft.DisplayName = formatted.Value
	}
	if name := card.Name(); name != nil {
		draft.GivenName = name.GivenName
		draft.Surname = name.FamilyName
	}

	draft.EmailAddresses = emailValues(card[vcard.FieldEmail])
	draft.IMAddresses = imValues(card[vcard.FieldIMPP])
	draft.PhoneNumbers = phoneValues(card[vcard.FieldTelephone])
	draft.PhysicalAddresses = addressValues(card.Addresses())
	return draft
}

// claimLabels takes the stored label of every field whose label is still
// free and returns the remaining fields in card order.
func claimLabels(fields []*vcard.Field, used map[string]bool) ([]contact.LabeledValue, []*vcard.Field) {
	var out []contact.LabeledValue
	var rest []*vcard.Field
	for _, field := range fields {
		label := paramValue(field, ParamLabel)
		if label == "" || used[label] {
			rest = append(rest, field)
			continue
		}
		used[label] = true
		out = append(out, contact.LabeledValue{Label: label, Value: field.Value})
	}
	return out, rest
}

func emailValues(fields []*vcard.Field) []contact.LabeledValue {
	used := map[string]bool{}
	out, rest := claimLabels(fields, used)

	var untyped []string
	for _, field := range rest {
		matched := false
		for _, slot := range emailTypes {
			if !used[slot.Label] && hasType(field, slot.Type) {
				used[slot.Label] = true
				out = append(out, contact.LabeledValue{Label: slot.Label, Value: field.Value})
				matched = true
				break
			}
		}
		if !matched {
			untyped = append(untyped, field.Value)
		}
	}
	for _, value := range untyped {
		for _, slot := range emailTypes {
			if !used[slot.Label] {
				used[slot.Label] = true
				out = append(out, contact.LabeledValue{Label: slot.Label, Value: value})
				break
			}
		}
	}
	sortLabeled(out)
	return out
}

func imValues(fields []*vcard.Field) []contact.LabeledValue {
	used := map[string]bool{}
	out, rest := claimLabels(fields, used)
	for _, field := range rest {
		for _, slot := range imSlots {
			if !used[slot] {
				used[slot] = true
				out = append(out, contact.LabeledValue{Label: slot, Value: field.Value})
				break
			}
		}
	}
	sortLabeled(out)
	return out
}

func phoneValues(fields []*vcard.Field) []contact.LabeledValue {
	used := map[string]bool{}
	out, rest := claimLabels(fields, used)
	for _, field := range rest {
		label := ""
		for _, candidate := range phoneTypes {
			if !used[candidate.Label] && sameTypes(field, candidate.Types) {
				label = candidate.Label
				break
			}
		}
		if label == "" && !used["OtherTelephone"] {
			label = "OtherTelephone"
		}
		if label == "" {
			continue
		}
		used[label] = true
		out = append(out, contact.LabeledValue{Label: label, Value: field.Value})
	}
	return out
}

func addressValues(addresses []*vcard.Address) []contact.Address {
	used := map[string]bool{}
	var out []contact.Address
	var rest []*vcard.Address
	for _, address := range addresses {
		label := paramValue(address.Field, ParamLabel)
		if label == "" || used[label] {
			rest = append(rest, address)
			continue
		}
		used[label] = true
		out = append(out, draftAddress(label, address))
	}
	for _, address := range rest {
		label := addressLabel(address.Field, used)
		if label == "" {
			continue
		}
		used[label] = true
		out = append(out, draftAddress(label, address))
	}
	return out
}

func draftAddress(label string, address *vcard.Address) contact.Address {
	return contact.Address{
		Label:           label,
		Street:          address.StreetAddress,
		City:            address.Locality,
		State:           address.Region,
		PostalCode:      address.PostalCode,
		CountryOrRegion: address.Country,
	}
}

func addressLabel(field *vcard.Field, used map[string]bool) string {
	for _, label := range []string{"Business", "Home", "Other"} {
		if !used[label] && hasType(field, addressTypes[label]) {
			return label
		}
	}
	if !used["Other"] {
		return "Other"
	}
	return ""
}

// labelFor returns the service label for a key. Keys outside the label table
// are written as-is; they canonicalize back to themselves.
func labelFor(key contact.CanonicalKey) string {
	if label, ok := contact.Label(key); ok {
		return label
	}
	return string(key)
}

func emailTypeFor(key contact.CanonicalKey) []string {
	for _, slot := range emailTypes {
		if slot.Key == key {
			return []string{slot.Type}
		}
	}
	return nil
}

func phoneTypesFor(key contact.CanonicalKey) []string {
	label, ok := contact.Label(key)
	if ok {
		for _, candidate := range phoneTypes {
			if candidate.Label == label {
				return candidate.Types
			}
		}
	}
	return []string{"voice"}
}

func labeled(field *vcard.Field, label string) *vcard.Field {
	if field.Params == nil {
		field.Params = vcard.Params{}
	}
	field.Params.Add(ParamLabel, label)
	return field
}

func typedField(value string, types ...string) *vcard.Field {
	field := &vcard.Field{Value: value, Params: vcard.Params{}}
	for _, t := range types {
		field.Params.Add(vcard.ParamType, t)
	}
	return field
}

func paramValue(field *vcard.Field, name string) string {
	if field == nil {
		return ""
	}
	for key, values := range field.Params {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

func fieldTypes(field *vcard.Field) map[string]bool {
	out := map[string]bool{}
	if field == nil {
		return out
	}
	for _, raw := range field.Params[vcard.ParamType] {
		for _, t := range strings.Split(raw, ",") {
			out[strings.ToLower(strings.TrimSpace(t))] = true
		}
	}
	return out
}

func hasType(field *vcard.Field, t string) bool {
	return fieldTypes(field)[t]
}

func sameTypes(field *vcard.Field, types []string) bool {
	got := fieldTypes(field)
	if len(got) != len(types) {
		return false
	}
	for _, t := range types {
		if !got[t] {
			return false
		}
	}
	return true
}

func sortLabeled(values []contact.LabeledValue) {
	sort.Slice(values, func(i, j int) bool { return values[i].Label < values[j].Label })
}

func sortedKeys[V any, M ~map[contact.CanonicalKey]V](m M) []contact.CanonicalKey {
	keys := make([]contact.CanonicalKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
