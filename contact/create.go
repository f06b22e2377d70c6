package contact

import (
	"errors"
	"fmt"
)

// StatusSuccess is the response status the service reports for a successful
// request.
const StatusSuccess = "Success"

// ErrNoItems is returned when a successful create response carries no item.
var ErrNoItems = errors.New("contact: create response carried no items")

// FolderID identifies the folder a contact is created in. A folder is either
// one of the service's distinguished folders ("contacts", "inbox", ...) or
// an opaque folder id string.
type FolderID struct {
	Distinguished string
	ID            string
}

// FolderContacts is the default folder for new contacts.
var FolderContacts = DistinguishedFolder("contacts")

// DistinguishedFolder returns a FolderID for a well-known folder name.
func DistinguishedFolder(name string) FolderID {
	return FolderID{Distinguished: name}
}

// FolderByID returns a FolderID for an opaque folder id.
func FolderByID(id string) FolderID {
	return FolderID{ID: id}
}

// IsDistinguished reports whether the folder is addressed by well-known name.
func (f FolderID) IsDistinguished() bool {
	return f.Distinguished != ""
}

// String returns the folder name or id.
func (f FolderID) String() string {
	if f.IsDistinguished() {
		return f.Distinguished
	}
	return f.ID
}

// Response is what a Transport returns for a create request.
//
// Items holds one tree per created item, each keyed by the item's type tag,
// for example {"contact": {...}}.
type Response struct {
	Status  string
	Code    string
	Message string
	Items   []map[string]any
}

// Transport is the service-call collaborator used to create contacts.
type Transport interface {
	CreateContactItem(folder FolderID, template map[string]any) (Response, error)
}

// Error is returned when the service rejects a create request. Code and
// Message are copied verbatim from the service response.
type Error struct {
	Code    string
	Message string
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e == nil {
		return "contact: <nil>"
	}
	return fmt.Sprintf("contact: could not create contact. %s: %s", e.Code, e.Message)
}

// Create asks the transport to create a contact from a wire-shaped template
// in folder and returns a bare record over the created item.
func Create(t Transport, template map[string]any, folder FolderID) (*Contact, error) {
	if t == nil {
		return nil, errors.New("contact: transport is required")
	}
	if template == nil {
		template = map[string]any{}
	}

	resp, err := t.CreateContactItem(folder, template)
	if err != nil {
		return nil, fmt.Errorf("contact: create request failed: %w", err)
	}
	if resp.Status != StatusSuccess {
		return nil, &Error{Code: resp.Code, Message: resp.Message}
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoItems
	}
	return New(unwrapItem(resp.Items[0])), nil
}

// AddBlank creates an empty contact in the default contacts folder.
func AddBlank(t Transport) (*Contact, error) {
	return Create(t, map[string]any{}, FolderContacts)
}

// unwrapItem returns the tree under an item's type tag. Items are expected to
// carry a single tag; with more than one, the first in name order wins.
func unwrapItem(item map[string]any) map[string]any {
	if len(item) == 0 {
		return map[string]any{}
	}
	tree, _ := asMap(item[sortedKeys(item)[0]])
	return tree
}
