package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/listahan/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrNoUser is returned by mutations when nobody is signed in
var ErrNoUser = errors.New("no user logged in")

// RemoteStore is the authoritative record store
type RemoteStore interface {
	GetAll(ctx context.Context, userID string) ([]models.RawRecord, error)
	Add(ctx context.Context, userID string, rec models.Record) (string, error)
	Update(ctx context.Context, userID, id string, rec models.Record) error
	Delete(ctx context.Context, userID, id string) error
}

// LocalCache keeps the last fetched record list per user and knows who is
// signed in
type LocalCache interface {
	SaveEntries(userID string, entries []models.RawRecord, syncedAt time.Time) error
	LoadEntries(userID string) ([]models.RawRecord, error)
	LastSync(userID string) (time.Time, bool, error)
	CurrentUser() (string, error)
}

// SyncController reconciles the remote store with the local cache for the
// signed-in user
type SyncController struct {
	remote RemoteStore
	cache  LocalCache
	logger *logrus.Logger
	now    func() time.Time
}

// NewSyncController creates a new sync controller
func NewSyncController(remote RemoteStore, cache LocalCache, logger *logrus.Logger) *SyncController {
	return &SyncController{
		remote: remote,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// ListAll fetches every record of the signed-in user and refreshes the
// cache. Any failure falls back to the cached list (or an empty one); the
// caller never sees an error.
func (c *SyncController) ListAll(ctx context.Context) []models.RawRecord {
	userID := c.currentUser()
	if userID == "" {
		c.logger.Warn("No user logged in, nothing to list")
		return []models.RawRecord{}
	}

	records, err := c.remote.GetAll(ctx, userID)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to fetch entries, using local cache")
		return c.localEntries(userID)
	}

	if err := c.cache.SaveEntries(userID, records, c.now()); err != nil {
		c.logger.WithError(err).Error("Failed to update local cache")
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(records),
	}).Debug("Entries synced")

	return records
}

// LocalEntries returns the signed-in user's cached records without a
// network call
func (c *SyncController) LocalEntries() []models.RawRecord {
	userID := c.currentUser()
	if userID == "" {
		return []models.RawRecord{}
	}
	return c.localEntries(userID)
}

// LastSync reports when the signed-in user's cache was captured
func (c *SyncController) LastSync() (time.Time, bool) {
	userID := c.currentUser()
	if userID == "" {
		return time.Time{}, false
	}
	at, ok, err := c.cache.LastSync(userID)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read last sync time")
		return time.Time{}, false
	}
	return at, ok
}

// Create submits a new record and returns the id assigned by the remote
// store. The cache is refreshed only after the remote confirms.
func (c *SyncController) Create(ctx context.Context, rec models.Record) (string, error) {
	userID := c.currentUser()
	if userID == "" {
		return "", ErrNoUser
	}

	id, err := c.remote.Add(ctx, userID, rec)
	if err != nil {
		c.logger.WithError(err).WithField("title", rec.Title).Error("Failed to add entry")
		return "", err
	}

	c.logger.WithFields(logrus.Fields{
		"id":    id,
		"type":  rec.Type,
		"title": rec.Title,
	}).Info("Entry added")

	c.ListAll(ctx)
	return id, nil
}

// Update replaces every mutable field of record id. The type is never taken
// from rec: the stored one is sent back, or none at all when it is unknown.
func (c *SyncController) Update(ctx context.Context, id string, rec models.Record) error {
	userID := c.currentUser()
	if userID == "" {
		return ErrNoUser
	}
	if id == "" {
		return fmt.Errorf("entry id is required")
	}

	rec.Type = c.storedType(ctx, userID, id)

	if err := c.remote.Update(ctx, userID, id, rec); err != nil {
		c.logger.WithError(err).WithField("id", id).Error("Failed to update entry")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"id":    id,
		"title": rec.Title,
	}).Info("Entry updated")

	c.ListAll(ctx)
	return nil
}

// Delete removes record id
func (c *SyncController) Delete(ctx context.Context, id string) error {
	userID := c.currentUser()
	if userID == "" {
		return ErrNoUser
	}
	if id == "" {
		return fmt.Errorf("entry id is required")
	}

	if err := c.remote.Delete(ctx, userID, id); err != nil {
		c.logger.WithError(err).WithField("id", id).Error("Failed to delete entry")
		return err
	}

	c.logger.WithField("id", id).Info("Entry deleted")

	c.ListAll(ctx)
	return nil
}

func (c *SyncController) currentUser() string {
	userID, err := c.cache.CurrentUser()
	if err != nil {
		c.logger.WithError(err).Error("Failed to read session")
		return ""
	}
	return userID
}

func (c *SyncController) localEntries(userID string) []models.RawRecord {
	entries, err := c.cache.LoadEntries(userID)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read local cache")
		return []models.RawRecord{}
	}
	return entries
}

// storedType returns the type held for record id, refreshing once when the
// cache does not know the record. It returns "" when the type stays unknown.
func (c *SyncController) storedType(ctx context.Context, userID, id string) models.MediaType {
	if t, found := findType(c.localEntries(userID), id); found {
		return t
	}

	t, found := findType(c.ListAll(ctx), id)
	if !found {
		c.logger.WithField("id", id).Debug("Entry not in cache, updating without type")
	}
	return t
}

// findType reports whether records hold id, and its type when that is valid
func findType(records []models.RawRecord, id string) (models.MediaType, bool) {
	for _, raw := range records {
		if fmt.Sprint(raw[models.FieldID]) != id {
			continue
		}
		t, _ := raw[models.FieldType].(string)
		if !models.MediaType(t).Valid() {
			return "", true
		}
		return models.MediaType(t), true
	}
	return "", false
}
