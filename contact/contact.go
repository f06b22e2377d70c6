package contact

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// TypeTag is the wire discriminator for contact items.
const TypeTag = "contact"

// Contact is an in-memory projection of one contact item's wire tree.
//
// Multi-valued fields are decoded lazily on first access and cached for the
// lifetime of the record. A Contact is not safe for concurrent use.
type Contact struct {
	raw map[string]any

	emailAddresses    KeyedMap
	imAddresses       KeyedMap
	phoneNumbers      PhoneMap
	physicalAddresses StructuredMap

	present     map[Field]bool
	unavailable map[Field]bool

	details *Details
	updates Updates
}

// New returns a bare record over a contact item's wire tree. Nothing is
// decoded until a field is accessed.
func New(tree map[string]any) *Contact {
	if tree == nil {
		tree = map[string]any{}
	}
	return &Contact{
		raw:         tree,
		present:     map[Field]bool{},
		unavailable: map[Field]bool{},
	}
}

// Raw returns the wire tree the record was built from.
func (c *Contact) Raw() map[string]any {
	return c.raw
}

// TypeTag returns the record's wire discriminator.
func (c *Contact) TypeTag() string {
	return TypeTag
}

// ItemID returns the service item id, or "" for records that carry none.
func (c *Contact) ItemID() string {
	node, ok := asMap(c.raw[string(FieldItemID)])
	if !ok {
		return ""
	}
	id, _ := node["id"].(string)
	return id
}

// Updates returns the record's pending mutation buffer.
func (c *Contact) Updates() *Updates {
	return &c.updates
}

// Decode decodes every multi-valued field that has not produced values yet.
func (c *Contact) Decode() {
	for _, field := range collectionFields {
		c.decode(field)
	}
}

// decode populates one collection. A collection that is already non-empty is
// left untouched; a field missing from the wire tree is marked unavailable.
func (c *Contact) decode(field Field) {
	switch field {
	case FieldEmailAddresses:
		if len(c.emailAddresses) > 0 {
			return
		}
		if fragment, ok := c.fragment(field); ok {
			c.emailAddresses = flatValues[KeyedMap](fragment)
		}
	case FieldIMAddresses:
		if len(c.imAddresses) > 0 {
			return
		}
		if fragment, ok := c.fragment(field); ok {
			c.imAddresses = flatValues[KeyedMap](fragment)
		}
	case FieldPhoneNumbers:
		if len(c.phoneNumbers) > 0 {
			return
		}
		if fragment, ok := c.fragment(field); ok {
			c.phoneNumbers = flatValues[PhoneMap](fragment)
		}
	case FieldPhysicalAddresses:
		if len(c.physicalAddresses) > 0 {
			return
		}
		if fragment, ok := c.fragment(field); ok {
			c.physicalAddresses = structuredValues(fragment)
		}
	}
}

// fragment looks up a field in the wire tree and records whether it was
// present.
func (c *Contact) fragment(field Field) (any, bool) {
	fragment, ok := c.raw[string(field)]
	if !ok {
		c.unavailable[field] = true
		delete(c.present, field)
		return nil, false
	}
	c.present[field] = true
	delete(c.unavailable, field)
	return fragment, true
}

// Available reports whether the wire tree contained the field. Collection
// fields are decoded as a side effect.
func (c *Contact) Available(field Field) bool {
	c.decode(field)
	if c.present[field] {
		return true
	}
	_, ok := c.raw[string(field)]
	return ok
}

// Unavailable lists the multi-valued fields the wire tree did not contain.
func (c *Contact) Unavailable() []Field {
	c.Decode()
	out := make([]Field, 0, len(c.unavailable))
	for _, field := range collectionFields {
		if c.unavailable[field] {
			out = append(out, field)
		}
	}
	return out
}

// Keyed returns a label -> value collection (email, IM or phone field). The
// boolean is false when the field is unavailable, which is distinct from an
// available field with no entries. The returned map must not be modified.
func (c *Contact) Keyed(field Field) (KeyedMap, bool) {
	c.decode(field)
	switch field {
	case FieldEmailAddresses:
		return c.emailAddresses, c.present[field]
	case FieldIMAddresses:
		return c.imAddresses, c.present[field]
	case FieldPhoneNumbers:
		return KeyedMap(c.phoneNumbers), c.present[field]
	default:
		return nil, false
	}
}

// Structured returns a label -> components collection. The boolean is false
// when the field is unavailable.
func (c *Contact) Structured(field Field) (StructuredMap, bool) {
	c.decode(field)
	if field != FieldPhysicalAddresses {
		return nil, false
	}
	return c.physicalAddresses, c.present[field]
}

// EmailAddresses returns the decoded email addresses keyed by slot.
func (c *Contact) EmailAddresses() (KeyedMap, bool) {
	return c.Keyed(FieldEmailAddresses)
}

// IMAddresses returns the decoded instant messaging addresses keyed by slot.
func (c *Contact) IMAddresses() (KeyedMap, bool) {
	return c.Keyed(FieldIMAddresses)
}

// PhoneNumbers returns the decoded phone numbers keyed by phone label.
func (c *Contact) PhoneNumbers() (PhoneMap, bool) {
	c.decode(FieldPhoneNumbers)
	return c.phoneNumbers, c.present[FieldPhoneNumbers]
}

// PhysicalAddresses returns the decoded postal addresses keyed by address
// label.
func (c *Contact) PhysicalAddresses() (StructuredMap, bool) {
	return c.Structured(FieldPhysicalAddresses)
}

// CompleteName is the structured name block of a contact.
type CompleteName struct {
	FirstName  string
	MiddleName string
	LastName   string
	Initials   string
	FullName   string
}

// Details holds the scalar fields of a contact.
type Details struct {
	ItemID        string
	ChangeKey     string
	FileAs        string
	FileAsMapping string
	DisplayName   string
	JobTitle      string
	GivenName     string
	Surname       string
	CompanyName   string
	CompleteName  CompleteName
}

type textNode struct {
	Text string `mapstructure:"text"`
}

type detailsWire struct {
	ItemID struct {
		ID        string `mapstructure:"id"`
		ChangeKey string `mapstructure:"change_key"`
	} `mapstructure:"item_id"`
	FileAs        textNode `mapstructure:"file_as"`
	FileAsMapping textNode `mapstructure:"file_as_mapping"`
	DisplayName   textNode `mapstructure:"display_name"`
	JobTitle      textNode `mapstructure:"job_title"`
	GivenName     textNode `mapstructure:"given_name"`
	Surname       textNode `mapstructure:"surname"`
	CompanyName   textNode `mapstructure:"company_name"`
	CompleteName  struct {
		FirstName  textNode `mapstructure:"first_name"`
		MiddleName textNode `mapstructure:"middle_name"`
		LastName   textNode `mapstructure:"last_name"`
		Initials   textNode `mapstructure:"initials"`
		FullName   textNode `mapstructure:"full_name"`
	} `mapstructure:"complete_name"`
}

var textNodeType = reflect.TypeOf(textNode{})

// bareText lets a scalar field arrive as a plain string instead of
// {"text": value}.
func bareText(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to == textNodeType && from.Kind() != reflect.Map {
		return map[string]any{attrText: data}, nil
	}
	return data, nil
}

// Details decodes the scalar fields once and returns them.
func (c *Contact) Details() (Details, error) {
	if c.details != nil {
		return *c.details, nil
	}

	var wire detailsWire
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       bareText,
		WeaklyTypedInput: true,
		Result:           &wire,
	})
	if err != nil {
		return Details{}, fmt.Errorf("contact: building details decoder failed: %w", err)
	}
	if err := decoder.Decode(c.raw); err != nil {
		return Details{}, fmt.Errorf("contact: decoding details failed: %w", err)
	}

	c.details = &Details{
		ItemID:        wire.ItemID.ID,
		ChangeKey:     wire.ItemID.ChangeKey,
		FileAs:        wire.FileAs.Text,
		FileAsMapping: wire.FileAsMapping.Text,
		DisplayName:   wire.DisplayName.Text,
		JobTitle:      wire.JobTitle.Text,
		GivenName:     wire.GivenName.Text,
		Surname:       wire.Surname.Text,
		CompanyName:   wire.CompanyName.Text,
		CompleteName: CompleteName{
			FirstName:  wire.CompleteName.FirstName.Text,
			MiddleName: wire.CompleteName.MiddleName.Text,
			LastName:   wire.CompleteName.LastName.Text,
			Initials:   wire.CompleteName.Initials.Text,
			FullName:   wire.CompleteName.FullName.Text,
		},
	}
	return *c.details, nil
}

// sortedKeys returns a map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
