package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

const (
	entriesKeyPrefix = "entries_"
	sessionKey       = "current_user"
)

// CacheEntry is the last successfully fetched record list for one user
type CacheEntry struct {
	Key      string `boltholdKey:"Key"`
	UserID   string `boltholdIndex:"UserID"`
	Entries  []byte // JSON array of raw records
	LastSync int64  // milliseconds since epoch
}

// Session holds the signed-in user
type Session struct {
	Key        string `boltholdKey:"Key"`
	UserID     string
	LoggedInAt time.Time
}

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, fmt.Errorf("database %s is locked by another listahan process (is 'listahan serve' running?): %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

func entriesKey(userID string) string {
	return entriesKeyPrefix + userID
}

// Cache operations

// SaveEntries replaces the cached record list for a user
func (db *Database) SaveEntries(userID string, entries []RawRecord, syncedAt time.Time) error {
	if entries == nil {
		entries = []RawRecord{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	entry := &CacheEntry{
		Key:      entriesKey(userID),
		UserID:   userID,
		Entries:  data,
		LastSync: syncedAt.UnixMilli(),
	}
	return db.store.Upsert(entry.Key, entry)
}

// LoadEntries returns the cached record list for a user. A user with no
// cache gets an empty list and no error.
func (db *Database) LoadEntries(userID string) ([]RawRecord, error) {
	var entry CacheEntry
	err := db.store.Get(entriesKey(userID), &entry)
	if errors.Is(err, bolthold.ErrNotFound) {
		return []RawRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := []RawRecord{}
	if len(entry.Entries) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(entry.Entries, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cached entries: %w", err)
	}
	return entries, nil
}

// LastSync returns when the user's cache was captured. ok is false when the
// user has never been synced.
func (db *Database) LastSync(userID string) (time.Time, bool, error) {
	var entry CacheEntry
	err := db.store.Get(entriesKey(userID), &entry)
	if errors.Is(err, bolthold.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(entry.LastSync), true, nil
}

// DeleteEntries removes every cache record held for a user
func (db *Database) DeleteEntries(userID string) error {
	query := bolthold.Where("UserID").Eq(userID).Index("UserID")
	if err := db.store.DeleteMatching(&CacheEntry{}, query); err != nil {
		return fmt.Errorf("failed to delete cached entries: %w", err)
	}
	return nil
}

// Session operations

// SaveSession records userID as the signed-in user
func (db *Database) SaveSession(userID string) error {
	session := &Session{
		Key:        sessionKey,
		UserID:     userID,
		LoggedInAt: time.Now(),
	}
	return db.store.Upsert(session.Key, session)
}

// CurrentUser returns the signed-in user, or "" when nobody is
func (db *Database) CurrentUser() (string, error) {
	var session Session
	err := db.store.Get(sessionKey, &session)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// ClearSession signs the current user out
func (db *Database) ClearSession() error {
	err := db.store.Delete(sessionKey, &Session{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}
