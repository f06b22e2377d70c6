// Package groupware is a lightweight index for the contact subpackages in this
// module.
//
// This root package is documentation-only. Import specific subpackages to use
// concrete helpers.
//
// Available subpackages:
//   - github.com/spachava753/groupware/contact
//     Contact records over the groupware wire tree: typed email, IM, phone and
//     address collections, change instructions, and item creation.
//   - github.com/spachava753/groupware/businesscard
//     vCard 4.0 conversion of contacts and drafts.
//   - github.com/spachava753/groupware/mailbox
//     IMAP folder store for contacts and SMTP business-card forwarding.
//   - github.com/spachava753/groupware/cache
//     Local SQLite cache of raw contact payloads.
//
// Discovery workflow:
//   - Run: go doc github.com/spachava753/groupware
//   - Then drill in with:
//     go doc github.com/spachava753/groupware/contact
//     go doc github.com/spachava753/groupware/mailbox
package groupware
