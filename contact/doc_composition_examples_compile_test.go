package contact_test

import (
	"fmt"
	"sort"

	"github.com/spachava753/groupware/contact"
)

type updateSender func(itemID string, updates map[string]any) error

func composeReplaceWorkEmail(tree map[string]any, newEmail string, send updateSender) error {
	c := contact.New(tree)
	emails, ok := c.EmailAddresses()
	if ok && emails["email_address1"] == newEmail {
		return nil
	}

	c.SetEmailAddresses(contact.Text(newEmail), nil, nil)
	if err := send(c.ItemID(), c.Updates().Wire()); err != nil {
		return err
	}
	c.Updates().Drain()
	return nil
}

func composeListPhoneLabels(tree map[string]any) ([]string, error) {
	c := contact.New(tree)
	phones, ok := c.PhoneNumbers()
	if !ok {
		return nil, fmt.Errorf("contact %s has no phone numbers field", c.ItemID())
	}

	labels := make([]string, 0, len(phones))
	for key := range phones {
		if label, known := contact.Label(key); known {
			labels = append(labels, label)
			continue
		}
		labels = append(labels, string(key))
	}
	sort.Strings(labels)
	return labels, nil
}

func composeCreateAndMove(transport contact.Transport, folderID string) (*contact.Contact, error) {
	created, err := contact.Create(transport, contact.Draft{
		GivenName:   "Priya",
		Surname:     "Raman",
		CompanyName: "Acme",
		EmailAddresses: []contact.LabeledValue{{
			Label: "EmailAddress1",
			Value: "priya@acme.example",
		}},
	}.Template(), contact.FolderByID(folderID))
	if err != nil {
		return nil, err
	}

	created.SetPhysicalAddress("Business", map[string]string{
		"street": "1 Market St",
		"city":   "San Francisco",
	})
	if err := created.SetField(contact.FieldJobTitle, "Buyer"); err != nil {
		return nil, err
	}
	return created, nil
}
