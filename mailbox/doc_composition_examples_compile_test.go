package mailbox_test

import (
	"fmt"
	"log/slog"

	"github.com/spachava753/groupware/contact"
	"github.com/spachava753/groupware/mailbox"
)

func composeImportDrafts(drafts []contact.Draft) ([]*contact.Contact, error) {
	store, err := mailbox.NewFromEnv(mailbox.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureFolder(contact.FolderContacts); err != nil {
		return nil, err
	}

	created := make([]*contact.Contact, 0, len(drafts))
	for _, draft := range drafts {
		c, err := contact.Create(store, draft.Template(), contact.FolderContacts)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

func composeShareByEmail(store *mailbox.Store, email string, to []string) error {
	all, err := store.Contacts(contact.FolderContacts)
	if err != nil {
		return err
	}
	for _, c := range all {
		emails, ok := c.EmailAddresses()
		if !ok {
			continue
		}
		for _, value := range emails {
			if value == email {
				return store.ForwardBusinessCard(c, to)
			}
		}
	}
	return fmt.Errorf("no contact with email %s", email)
}
