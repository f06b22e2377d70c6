package contact

// Field names a contact field as it appears in the wire tree.
type Field string

const (
	// FieldEmailAddresses holds up to three electronic addresses.
	FieldEmailAddresses Field = "email_addresses"
	// FieldIMAddresses holds up to three instant messaging addresses.
	FieldIMAddresses Field = "im_addresses"
	// FieldPhoneNumbers holds phone numbers keyed by phone label.
	FieldPhoneNumbers Field = "phone_numbers"
	// FieldPhysicalAddresses holds postal addresses keyed by address label.
	FieldPhysicalAddresses Field = "physical_addresses"

	// FieldFileAs is the name the contact is filed under.
	FieldFileAs Field = "file_as"
	// FieldFileAsMapping names the rule that builds FileAs.
	FieldFileAsMapping Field = "file_as_mapping"
	// FieldDisplayName is the name shown for the contact.
	FieldDisplayName Field = "display_name"
	// FieldJobTitle is the contact's job title.
	FieldJobTitle Field = "job_title"
	// FieldGivenName is the contact's given name.
	FieldGivenName Field = "given_name"
	// FieldSurname is the contact's family name.
	FieldSurname Field = "surname"
	// FieldCompanyName is the contact's company.
	FieldCompanyName Field = "company_name"
	// FieldCompleteName holds the structured name parts (first_name,
	// middle_name, last_name, initials, full_name). It is read-only.
	FieldCompleteName Field = "complete_name"
	// FieldItemID holds the service identity {"id", "change_key"}.
	FieldItemID Field = "item_id"
)

// Kind is the decoded shape of a field.
type Kind int

const (
	// KindText is a scalar {"text": value} field.
	KindText Kind = iota + 1
	// KindKeyed is a label -> value collection (email, IM).
	KindKeyed
	// KindPhone is a label -> phone number collection.
	KindPhone
	// KindStructured is a label -> component map collection (postal address).
	KindStructured
)

// FieldSpec describes one entry of the contact schema.
type FieldSpec struct {
	Name Field
	Kind Kind
	// URI is the service field URI used to address the field in updates.
	URI string
}

// schema is the fixed registry of contact fields this package understands.
var schema = []FieldSpec{
	{Name: FieldEmailAddresses, Kind: KindKeyed, URI: "contacts:EmailAddress"},
	{Name: FieldIMAddresses, Kind: KindKeyed, URI: "contacts:ImAddress"},
	{Name: FieldPhoneNumbers, Kind: KindPhone, URI: "contacts:PhoneNumber"},
	{Name: FieldPhysicalAddresses, Kind: KindStructured, URI: "contacts:PhysicalAddress"},
	{Name: FieldFileAs, Kind: KindText, URI: "contacts:FileAs"},
	{Name: FieldFileAsMapping, Kind: KindText, URI: "contacts:FileAsMapping"},
	{Name: FieldDisplayName, Kind: KindText, URI: "contacts:DisplayName"},
	{Name: FieldJobTitle, Kind: KindText, URI: "contacts:JobTitle"},
	{Name: FieldGivenName, Kind: KindText, URI: "contacts:GivenName"},
	{Name: FieldSurname, Kind: KindText, URI: "contacts:Surname"},
	{Name: FieldCompanyName, Kind: KindText, URI: "contacts:CompanyName"},
}

var schemaByName = func() map[Field]FieldSpec {
	out := make(map[Field]FieldSpec, len(schema))
	for _, spec := range schema {
		out[spec.Name] = spec
	}
	return out
}()

// Schema returns a copy of the contact field registry.
func Schema() []FieldSpec {
	return append([]FieldSpec(nil), schema...)
}

// Lookup returns the schema entry for a field name.
func Lookup(name Field) (FieldSpec, bool) {
	spec, ok := schemaByName[name]
	return spec, ok
}

// collectionFields lists the multi-valued fields in decode order.
var collectionFields = []Field{
	FieldEmailAddresses,
	FieldIMAddresses,
	FieldPhoneNumbers,
	FieldPhysicalAddresses,
}
