package cache

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spachava753/groupware/contact"
)

const schema = `CREATE TABLE IF NOT EXISTS contacts (
	item_id    TEXT PRIMARY KEY,
	change_key TEXT NOT NULL DEFAULT '',
	payload    BLOB NOT NULL,
	stored_at  INTEGER NOT NULL
)`

var (
	// ErrNotFound is returned when no payload is cached for an item id.
	ErrNotFound = errors.New("cache: contact not found")
	// ErrMissingItemID is returned when a contact without an item id is put.
	ErrMissingItemID = errors.New("cache: contact has no item id")
)

// Entry describes one cached payload.
type Entry struct {
	ItemID    string
	ChangeKey string
	StoredAt  time.Time
}

// Store caches raw contact trees in a SQLite database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open opens or creates the cache database at path.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache: database path is required")
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", strings.ReplaceAll(path, " ", "%20"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: opening sqlite database failed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: connecting to sqlite database failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema failed: %w", err)
	}

	s := &Store{
		db:  db,
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the contact's raw tree, replacing any earlier payload for the
// same item id. Pending updates are not stored.
func (s *Store) Put(c *contact.Contact) error {
	if c == nil {
		return errors.New("cache: contact is required")
	}
	details, err := c.Details()
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if details.ItemID == "" {
		return ErrMissingItemID
	}

	payload, err := json.Marshal(c.Raw())
	if err != nil {
		return fmt.Errorf("cache: encoding payload failed: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO contacts (item_id, change_key, payload, stored_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(item_id) DO UPDATE SET
	change_key = excluded.change_key,
	payload = excluded.payload,
	stored_at = excluded.stored_at`,
		details.ItemID, details.ChangeKey, payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("cache: storing %s failed: %w", details.ItemID, err)
	}

	s.log.Debug("contact cached", "item_id", details.ItemID, "bytes", len(payload))
	return nil
}

// Get rebuilds the cached contact with the given item id. The returned
// contact has not decoded any collection yet.
func (s *Store) Get(itemID string) (*contact.Contact, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM contacts WHERE item_id = ?`, itemID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("cache: loading %s failed: %w", itemID, err)
	}
	return decodePayload(itemID, payload)
}

// List returns every cached contact ordered by item id.
func (s *Store) List() ([]*contact.Contact, error) {
	rows, err := s.db.Query(`SELECT item_id, payload FROM contacts ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("cache: listing contacts failed: %w", err)
	}
	defer rows.Close()

	out := make([]*contact.Contact, 0, 16)
	for rows.Next() {
		var (
			itemID  string
			payload []byte
		)
		if err := rows.Scan(&itemID, &payload); err != nil {
			return nil, fmt.Errorf("cache: scanning contact row failed: %w", err)
		}
		c, err := decodePayload(itemID, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: iterating contact rows failed: %w", err)
	}
	return out, nil
}

// Entries returns the cache index without decoding payloads.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT item_id, change_key, stored_at FROM contacts ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("cache: listing entries failed: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, 16)
	for rows.Next() {
		var (
			entry    Entry
			storedAt int64
		)
		if err := rows.Scan(&entry.ItemID, &entry.ChangeKey, &storedAt); err != nil {
			return nil, fmt.Errorf("cache: scanning entry row failed: %w", err)
		}
		entry.StoredAt = time.Unix(storedAt, 0)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: iterating entry rows failed: %w", err)
	}
	return out, nil
}

// Delete removes the cached payload. Deleting an unknown id returns
// ErrNotFound.
func (s *Store) Delete(itemID string) error {
	res, err := s.db.Exec(`DELETE FROM contacts WHERE item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("cache: deleting %s failed: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cache: deleting %s failed: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	s.log.Debug("contact evicted", "item_id", itemID)
	return nil
}

// decodePayload keeps JSON numbers as json.Number so numeric text (phone
// numbers sent as integers) formats exactly as it arrived.
func decodePayload(itemID string, payload []byte) (*contact.Contact, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("cache: decoding payload for %s failed: %w", itemID, err)
	}
	return contact.New(tree), nil
}
