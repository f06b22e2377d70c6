// Package mailbox stores contacts as business cards in IMAP mailboxes.
//
// A Store implements contact.Transport, so contact.Create and contact.AddBlank
// can write straight into a mail account. Each contact becomes one message:
//
//   - Content-Type: text/vcard; charset=UTF-8
//   - Subject: the contact's display name
//   - X-Groupware-Item-Id and X-Groupware-Change-Key: the assigned identity
//
// The store exposes four operations:
//
//   - CreateContactItem: append a new contact message (the Transport call).
//   - EnsureFolder: create the mailbox behind a folder if it is missing.
//   - Contacts: list and decode every contact in a folder.
//   - ForwardBusinessCard: mail a contact as a .vcf attachment over SMTP.
//
// # Folders
//
// The distinguished "contacts" folder maps to Config.ContactsMailbox
// ("Contacts" by default). Any other folder id is used as the mailbox name.
// Creating into a mailbox that does not exist yields a response with code
// ErrorFolderNotFound, which contact.Create turns into a *contact.Error.
//
// # Configuration
//
// ConfigFromEnv reads:
//
//   - GROUPWARE_IMAP_ADDR (default imap.gmail.com:993)
//   - GROUPWARE_IMAP_PLAINTEXT (default false)
//   - GROUPWARE_SMTP_ADDR (default smtp.gmail.com:465)
//   - GROUPWARE_SMTP_PLAINTEXT (default false)
//   - GROUPWARE_ADDRESS
//   - GROUPWARE_APP_PASSWORD
//   - GROUPWARE_CONTACTS_MAILBOX (default Contacts)
//
// Connections use implicit TLS; the PLAINTEXT switches exist for local test
// servers. Spaces in the app password are dropped, so a password can be pasted in the
// grouped form mail providers display.
//
// # Composition Examples
//
// Create a contact and read it back:
//
//	store, err := mailbox.NewFromEnv(mailbox.WithLogger(slog.Default()))
//	if err != nil { /* handle */ }
//	if err := store.EnsureFolder(contact.FolderContacts); err != nil { /* handle */ }
//
//	created, err := contact.Create(store, contact.Draft{
//		GivenName: "Dan",
//		Surname:   "Wanek",
//	}.Template(), contact.FolderContacts)
//	if err != nil { /* handle */ }
//
//	all, err := store.Contacts(contact.FolderContacts)
//
// Share a contact:
//
//	err = store.ForwardBusinessCard(created, []string{"team@example.com"})
//
// Because each call dials a fresh connection, a Store is safe to share between
// goroutines.
package mailbox
