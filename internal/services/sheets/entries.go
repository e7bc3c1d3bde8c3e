package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/amaumene/listahan/internal/models"
)

// GetAll retrieves every record belonging to userID
func (c *Client) GetAll(ctx context.Context, userID string) ([]models.RawRecord, error) {
	params := url.Values{}
	params.Set("action", "getAll")
	params.Set("userId", userID)

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	if err := remoteError("getAll", resp); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode entries: %w", err)
		}
	}

	records := make([]models.RawRecord, 0, len(items))
	for i, item := range items {
		var rec models.RawRecord
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			c.logger.WithField("index", i).Warn("Skipping entry that is not an object")
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Add submits a new record and returns the id the remote store assigned
func (c *Client) Add(ctx context.Context, userID string, rec models.Record) (string, error) {
	form := rec.FormValues()
	form.Set("action", "add")
	form.Set("userId", userID)

	resp, err := c.post(ctx, form)
	if err != nil {
		return "", fmt.Errorf("failed to add entry: %w", err)
	}
	if err := remoteError("add", resp); err != nil {
		return "", err
	}

	return string(resp.ID), nil
}

// Update replaces every mutable field of record id
func (c *Client) Update(ctx context.Context, userID, id string, rec models.Record) error {
	form := rec.FormValues()
	form.Set("action", "update")
	form.Set("id", id)
	form.Set("userId", userID)

	resp, err := c.post(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return remoteError("update", resp)
}

// Delete removes record id
func (c *Client) Delete(ctx context.Context, userID, id string) error {
	form := url.Values{}
	form.Set("action", "delete")
	form.Set("id", id)
	form.Set("userId", userID)

	resp, err := c.post(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return remoteError("delete", resp)
}
