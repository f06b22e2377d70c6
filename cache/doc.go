// Package cache keeps raw contact payloads in a local SQLite database so
// records can be rebuilt without a round trip to the service.
//
// Payloads are stored as JSON under the contact's item id. Get and List return
// fresh contact.Contact values whose collections decode lazily, exactly as if
// the tree had just arrived from the wire.
package cache
