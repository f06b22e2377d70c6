package contact

import (
	"fmt"
	"strings"
)

// Slot labels for the fixed, ordered positional fields.
var (
	emailSlots = [3]string{"EmailAddress1", "EmailAddress2", "EmailAddress3"}
	imSlots    = [3]string{"ImAddress1", "ImAddress2", "ImAddress3"}
)

// Text returns a pointer to s, for optional slot arguments.
func Text(s string) *string {
	return &s
}

// FieldLocator addresses a field in an update. Index is set for indexed
// fields (one slot of a multi-valued field) and empty for scalar fields.
type FieldLocator struct {
	URI   string
	Index string
}

func (l FieldLocator) wire() map[string]any {
	if l.Index == "" {
		return map[string]any{
			"field_uri": map[string]any{"field_uri": l.URI},
		}
	}
	return map[string]any{
		"indexed_field_uri": map[string]any{
			"field_uri":   l.URI,
			"field_index": l.Index,
		},
	}
}

// Change is one set-item-field instruction: a locator plus the new field
// node wrapped in the record's type tag.
type Change struct {
	Locator FieldLocator
	TypeTag string
	Field   Field
	// Value is the field node as it appears under the field name, for example
	// {"entry": {"key": "EmailAddress1", "text": "a@example.com"}}.
	Value map[string]any
}

// Wire renders the instruction in the service's update shape.
func (c Change) Wire() map[string]any {
	return map[string]any{
		"set_item_field": []any{
			c.Locator.wire(),
			map[string]any{
				c.TypeTag: map[string]any{string(c.Field): c.Value},
			},
		},
	}
}

// Updates is an ordered buffer of pending changes. Appends concatenate; the
// transmission layer drains it.
type Updates struct {
	changes []Change
}

// Append adds changes after any already queued.
func (u *Updates) Append(changes ...Change) {
	u.changes = append(u.changes, changes...)
}

// Len returns the number of queued changes.
func (u *Updates) Len() int {
	return len(u.changes)
}

// Changes returns a copy of the queued changes in order.
func (u *Updates) Changes() []Change {
	return append([]Change(nil), u.changes...)
}

// Drain returns the queued changes and empties the buffer.
func (u *Updates) Drain() []Change {
	out := u.changes
	u.changes = nil
	return out
}

// Wire renders the buffer as {"preformatted": [...]}. An empty buffer renders
// as an empty map.
func (u *Updates) Wire() map[string]any {
	if len(u.changes) == 0 {
		return map[string]any{}
	}
	instructions := make([]any, 0, len(u.changes))
	for _, change := range u.changes {
		instructions = append(instructions, change.Wire())
	}
	return map[string]any{"preformatted": instructions}
}

// indexedChange builds one entry-level change for a keyed or phone field.
func indexedChange(typeTag string, field Field, label string, value string) Change {
	spec, _ := Lookup(field)
	return Change{
		Locator: FieldLocator{URI: spec.URI, Index: label},
		TypeTag: typeTag,
		Field:   field,
		Value: map[string]any{
			attrEntry: map[string]any{attrKey: label, attrText: value},
		},
	}
}

func slotChanges(typeTag string, field Field, slots [3]string, values [3]*string) []Change {
	out := make([]Change, 0, len(slots))
	for i, value := range values {
		if value == nil {
			continue
		}
		out = append(out, indexedChange(typeTag, field, slots[i], *value))
	}
	return out
}

// EmailChanges builds the changes that set up to three email slots. Nil
// values are omitted; the rest are emitted in slot order.
func EmailChanges(typeTag string, email1, email2, email3 *string) []Change {
	return slotChanges(typeTag, FieldEmailAddresses, emailSlots, [3]*string{email1, email2, email3})
}

// IMChanges builds the changes that set up to three IM address slots.
func IMChanges(typeTag string, im1, im2, im3 *string) []Change {
	return slotChanges(typeTag, FieldIMAddresses, imSlots, [3]*string{im1, im2, im3})
}

// SetEmailAddresses queues changes for the three email slots. Slot 1 is
// normally set; nil slots are left as they are on the service.
func (c *Contact) SetEmailAddresses(email1, email2, email3 *string) {
	c.updates.Append(EmailChanges(c.TypeTag(), email1, email2, email3)...)
}

// SetIMAddresses queues changes for the three IM address slots.
func (c *Contact) SetIMAddresses(im1, im2, im3 *string) {
	c.updates.Append(IMChanges(c.TypeTag(), im1, im2, im3)...)
}

// SetPhoneNumber queues a change for one phone label such as "MobilePhone".
func (c *Contact) SetPhoneNumber(label string, number string) {
	c.updates.Append(indexedChange(c.TypeTag(), FieldPhoneNumbers, label, number))
}

// SetPhysicalAddress queues one change per address component. Components
// are named as on the wire ("street", "postal_code") and emitted in name
// order.
func (c *Contact) SetPhysicalAddress(label string, components map[string]string) {
	spec, _ := Lookup(FieldPhysicalAddresses)
	for _, name := range sortedKeys(components) {
		if name == attrKey {
			continue
		}
		c.updates.Append(Change{
			Locator: FieldLocator{URI: spec.URI + ":" + camelCase(name), Index: label},
			TypeTag: c.TypeTag(),
			Field:   FieldPhysicalAddresses,
			Value: map[string]any{
				attrEntry: map[string]any{
					attrKey: label,
					name:    map[string]any{attrText: components[name]},
				},
			},
		})
	}
}

// SetField queues a change for a scalar text field such as FieldJobTitle.
func (c *Contact) SetField(field Field, value string) error {
	spec, ok := Lookup(field)
	if !ok || spec.Kind != KindText {
		return fmt.Errorf("contact: %q is not a text field", field)
	}
	c.updates.Append(Change{
		Locator: FieldLocator{URI: spec.URI},
		TypeTag: c.TypeTag(),
		Field:   field,
		Value:   map[string]any{attrText: value},
	})
	return nil
}

// camelCase turns a wire component name into its field URI form
// ("postal_code" -> "PostalCode").
func camelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
