package contact

// LabeledValue is a labeled string value for a multi-valued field. Label is
// the service label ("EmailAddress1", "MobilePhone").
type LabeledValue struct {
	Label string
	Value string
}

// Address is one postal address. Label is the address label ("Business",
// "Home", "Other").
type Address struct {
	Label           string
	Street          string
	City            string
	State           string
	CountryOrRegion string
	PostalCode      string
}

// components returns the non-empty address components under their wire
// names.
func (a Address) components() map[string]string {
	out := map[string]string{}
	for name, value := range map[string]string{
		"street":            a.Street,
		"city":              a.City,
		"state":             a.State,
		"country_or_region": a.CountryOrRegion,
		"postal_code":       a.PostalCode,
	} {
		if value != "" {
			out[name] = value
		}
	}
	return out
}

// Draft is the typed create model rendered into a template for Create.
//
// Empty scalar fields and empty collections are left out of the template.
type Draft struct {
	FileAs            string
	FileAsMapping     string
	DisplayName       string
	GivenName         string
	Surname           string
	CompanyName       string
	JobTitle          string
	CompleteName      CompleteName
	EmailAddresses    []LabeledValue
	IMAddresses       []LabeledValue
	PhoneNumbers      []LabeledValue
	PhysicalAddresses []Address
}

// Template renders the draft as a contact wire tree.
func (d Draft) Template() map[string]any {
	tree := map[string]any{}
	for field, value := range map[Field]string{
		FieldFileAs:        d.FileAs,
		FieldFileAsMapping: d.FileAsMapping,
		FieldDisplayName:   d.DisplayName,
		FieldGivenName:     d.GivenName,
		FieldSurname:       d.Surname,
		FieldCompanyName:   d.CompanyName,
		FieldJobTitle:      d.JobTitle,
	} {
		if value != "" {
			tree[string(field)] = map[string]any{attrText: value}
		}
	}

	name := map[string]any{}
	for part, value := range map[string]string{
		"first_name":  d.CompleteName.FirstName,
		"middle_name": d.CompleteName.MiddleName,
		"last_name":   d.CompleteName.LastName,
		"initials":    d.CompleteName.Initials,
		"full_name":   d.CompleteName.FullName,
	} {
		if value != "" {
			name[part] = map[string]any{attrText: value}
		}
	}
	if len(name) > 0 {
		tree[string(FieldCompleteName)] = name
	}

	setLabeled(tree, FieldEmailAddresses, d.EmailAddresses)
	setLabeled(tree, FieldIMAddresses, d.IMAddresses)
	setLabeled(tree, FieldPhoneNumbers, d.PhoneNumbers)

	if len(d.PhysicalAddresses) > 0 {
		entries := make([]any, 0, len(d.PhysicalAddresses))
		for _, address := range d.PhysicalAddresses {
			entry := map[string]any{attrKey: address.Label}
			for name, value := range address.components() {
				entry[name] = map[string]any{attrText: value}
			}
			entries = append(entries, entry)
		}
		tree[string(FieldPhysicalAddresses)] = map[string]any{attrEntry: entries}
	}
	return tree
}

func setLabeled(tree map[string]any, field Field, values []LabeledValue) {
	if len(values) == 0 {
		return
	}
	entries := make([]any, 0, len(values))
	for _, value := range values {
		entries = append(entries, map[string]any{attrKey: value.Label, attrText: value.Value})
	}
	tree[string(field)] = map[string]any{attrEntry: entries}
}
