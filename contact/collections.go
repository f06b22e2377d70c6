package contact

// KeyedMap maps a CanonicalKey to a flat value. Email and IM addresses decode
// into a KeyedMap.
type KeyedMap map[CanonicalKey]string

// PhoneMap maps a phone label's CanonicalKey to the number as given.
type PhoneMap map[CanonicalKey]string

// StructuredMap maps an address label's CanonicalKey to its named components
// (street, city, state, ...).
type StructuredMap map[CanonicalKey]map[string]string

// flatValues builds a label -> text collection. Malformed-empty entries and
// entries without a label are skipped; an entry with no "text" maps to "".
// Colliding keys keep the last value.
func flatValues[M ~map[CanonicalKey]string](fragment any) M {
	entries := Entries(fragment)
	out := make(M, len(entries))
	for _, entry := range entries {
		label, ok := entry.Label()
		if !ok || entry.empty() {
			continue
		}
		out[Canonicalize(label)] = entry.Text()
	}
	return out
}

// structuredValues builds a label -> component map collection from entries
// whose sub-attributes each carry a nested text value.
func structuredValues(fragment any) StructuredMap {
	entries := Entries(fragment)
	out := make(StructuredMap, len(entries))
	for _, entry := range entries {
		label, ok := entry.Label()
		if !ok || entry.empty() {
			continue
		}
		out[Canonicalize(label)] = entry.components()
	}
	return out
}
