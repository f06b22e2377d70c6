// Package contact maps contact items between the groupware service's
// loosely-typed wire tree and typed Go collections.
//
// The package exposes three concerns:
//
//   - Decode: a Contact wraps one item's wire tree (map[string]any) and
//     lazily decodes its multi-valued fields into KeyedMap, PhoneMap and
//     StructuredMap collections keyed by CanonicalKey.
//   - Mutate: Set* methods queue set-item-field instructions on the record's
//     Updates buffer for a transmission layer to drain.
//   - Create: Create and AddBlank ask an injected Transport to create an item
//     and return a bare record over the result.
//
// # Wire Shape
//
// A multi-valued field arrives either as a single entry or as a sequence:
//
//	{"entry": {"key": "BusinessPhone", "text": "7012220000"}}
//	{"entry": [{"key": "EmailAddress1", "text": "a@example.com"}, ...]}
//
// Postal addresses carry named components instead of text:
//
//	{"entry": {"key": "Business", "street": {"text": "6343 N Baltimore"}, "city": {"text": "Bismarck"}}}
//
// An entry with nothing but its "key" is ignored.
//
// # Availability
//
// Accessors return a boolean alongside the collection. False means the wire
// tree had no such field at all; true with an empty collection means the
// field was present but held no usable entries.
//
// # Decode Caching
//
// Each collection is decoded at most once per record: once a collection holds
// values, later accesses never re-read the wire tree.
//
// # Composition Examples
//
// 1) Read phone numbers:
//
//	c := contact.New(tree)
//	phones, ok := c.PhoneNumbers()
//	if !ok {
//		// the item carried no phone numbers field
//	}
//	mobile := phones["mobile_phone"]
//
// 2) Queue email changes and hand them to the transmission layer:
//
//	c.SetEmailAddresses(contact.Text("work@example.com"), nil, contact.Text("alt@example.com"))
//	send(c.ItemID(), c.Updates().Wire())
//	c.Updates().Drain()
//
// 3) Create from a typed draft:
//
//	created, err := contact.Create(transport, contact.Draft{
//		GivenName:      "Dan",
//		EmailAddresses: []contact.LabeledValue{{Label: "EmailAddress1", Value: "dan@example.com"}},
//	}.Template(), contact.FolderContacts)
//
//nolint:revive // package comment documents API composition examples.
package contact
