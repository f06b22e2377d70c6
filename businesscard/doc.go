// Package businesscard converts contacts to and from vCard 4.0 business cards.
//
// New renders a decoded contact as a card; Draft turns a parsed card back into
// a contact.Draft whose Template can be passed to contact.Create. Each email,
// IM, phone and address field carries its service label in the
// X-GROUPWARE-LABEL parameter next to the usual TYPE values, so cards written
// here read back under the same labels. Cards from other sources are mapped
// through their TYPE parameters.
package businesscard
