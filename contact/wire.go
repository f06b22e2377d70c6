package contact

import "fmt"

// Wire attribute names shared by every entry-record.
const (
	attrEntry = "entry"
	attrKey   = "key"
	attrText  = "text"
)

// Entry is one labeled unit of a multi-valued field as it appears on the wire.
//
// The label lives under "key". A flat value lives under "text". Any other
// attribute is a named sub-value shaped like {"text": value}.
type Entry map[string]any

// Label returns the entry's label and whether one is present.
func (e Entry) Label() (string, bool) {
	label, ok := e[attrKey].(string)
	return label, ok
}

// Text returns the entry's flat value. Entries without a "text" attribute
// yield "".
func (e Entry) Text() string {
	return flatText(e[attrText])
}

// empty reports whether the entry carries nothing besides its label.
func (e Entry) empty() bool {
	for name := range e {
		if name != attrKey {
			return false
		}
	}
	return true
}

// components returns every attribute except the label, paired with its
// nested flat text.
func (e Entry) components() map[string]string {
	out := make(map[string]string, len(e))
	for name, value := range e {
		if name == attrKey {
			continue
		}
		if nested, ok := asMap(value); ok {
			out[name] = flatText(nested[attrText])
			continue
		}
		out[name] = flatText(value)
	}
	return out
}

// Entries normalizes a field fragment into a sequence of entry-records.
//
// The fragment may be the field node itself ({"entry": ...}) or the value
// under "entry". A lone entry becomes a one-element sequence and a sequence is
// passed through; anything else yields no entries.
func Entries(fragment any) []Entry {
	if node, ok := asMap(fragment); ok {
		if inner, has := node[attrEntry]; has {
			fragment = inner
		}
	}

	switch value := fragment.(type) {
	case nil:
		return nil
	case []any:
		out := make([]Entry, 0, len(value))
		for _, item := range value {
			if entry, ok := asMap(item); ok {
				out = append(out, Entry(entry))
			}
		}
		return out
	case []map[string]any:
		out := make([]Entry, 0, len(value))
		for _, item := range value {
			if item != nil {
				out = append(out, Entry(item))
			}
		}
		return out
	case []Entry:
		return value
	default:
		if entry, ok := asMap(value); ok {
			return []Entry{Entry(entry)}
		}
		return nil
	}
}

func asMap(v any) (map[string]any, bool) {
	switch value := v.(type) {
	case map[string]any:
		return value, value != nil
	case Entry:
		return value, value != nil
	default:
		return nil, false
	}
}

func flatText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
