package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/listahan/internal/api/middleware"
	"github.com/amaumene/listahan/internal/config"
	"github.com/amaumene/listahan/internal/controllers"
	"github.com/amaumene/listahan/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntries struct {
	records  []models.RawRecord
	lastSync time.Time
	err      error

	created []models.Record
	updated map[string]models.Record
	deleted []string
}

func (f *fakeEntries) ListAll(ctx context.Context) []models.RawRecord { return f.records }
func (f *fakeEntries) LocalEntries() []models.RawRecord               { return f.records }

func (f *fakeEntries) LastSync() (time.Time, bool) {
	return f.lastSync, !f.lastSync.IsZero()
}

func (f *fakeEntries) Create(ctx context.Context, rec models.Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, rec)
	return "new-1", nil
}

func (f *fakeEntries) Update(ctx context.Context, id string, rec models.Record) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = make(map[string]models.Record)
	}
	f.updated[id] = rec
	return nil
}

func (f *fakeEntries) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fixedConn bool

func (c fixedConn) Online() bool { return bool(c) }

func newTestServer(entries *fakeEntries, online bool) http.Handler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(&config.Config{ServerPort: "0"}, entries, fixedConn(online), logger).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeEntries{}, true), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer(&fakeEntries{}, true).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestStatus(t *testing.T) {
	entries := &fakeEntries{
		records: []models.RawRecord{
			{"id": "1", "type": "anime", "title": "A", "status": "watching"},
			{"id": "2", "type": "anime", "title": "B"},
			{"id": "3", "type": "manga", "title": "C", "status": "complete"},
		},
		lastSync: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	rec := do(t, newTestServer(entries, false), http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Online   bool       `json:"online"`
		LastSync *time.Time `json:"last_sync"`
		Total    int        `json:"total"`
		Counts   map[string]struct {
			All      int            `json:"all"`
			ByStatus map[string]int `json:"by_status"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.False(t, body.Online)
	require.NotNil(t, body.LastSync)
	assert.True(t, entries.lastSync.Equal(*body.LastSync))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Counts["anime"].All)
	assert.Equal(t, 1, body.Counts["anime"].ByStatus["plan"])
	assert.Equal(t, 1, body.Counts["manga"].ByStatus["complete"])
	assert.Equal(t, 0, body.Counts["manhwa"].All)
}

func TestStatusNeverSynced(t *testing.T) {
	rec := do(t, newTestServer(&fakeEntries{}, true), http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_sync":null`)
}

func TestListEntries(t *testing.T) {
	entries := &fakeEntries{records: []models.RawRecord{
		{"id": "1", "type": "anime", "title": "Naruto", "rating": 6.0},
		{"id": "2", "type": "anime", "title": "Frieren", "rating": 9.5, "status": "complete"},
		{"id": "3", "type": "manga", "title": "Berserk"},
	}}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodGet, "/api/entries?type=anime&sort=rating", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []models.ViewModel `json:"entries"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Frieren", body.Entries[0].Title)
	assert.Equal(t, "Naruto", body.Entries[1].Title)
	assert.Equal(t, models.StatusPlan, body.Entries[1].Status)

	rec = do(t, h, http.MethodGet, "/api/entries?q=frie", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestListEntriesRejectsUnknownParams(t *testing.T) {
	h := newTestServer(&fakeEntries{}, true)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/entries?type=novel", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/entries?sort=random", "").Code)
}

func TestCreateEntry(t *testing.T) {
	entries := &fakeEntries{}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodPost, "/api/entries",
		`{"type":"anime","title":" Frieren ","status":"watching","episodes":12,"rating":"9.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"new-1"}`, rec.Body.String())

	require.Len(t, entries.created, 1)
	created := entries.created[0]
	assert.Equal(t, "Frieren", created.Title)
	assert.Equal(t, 12, created.Progress)
	assert.Equal(t, 9.5, created.Rating)
	assert.False(t, created.LastUpdated.IsZero())
}

func TestCreateEntryValidation(t *testing.T) {
	entries := &fakeEntries{}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodPost, "/api/entries", `{"type":"anime","title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter a title","field":"title"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/entries", `{"type":"novel","title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/entries", `not json`).Code)
	assert.Empty(t, entries.created)
}

func TestUpdateEntry(t *testing.T) {
	entries := &fakeEntries{}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodPut, "/api/entries/abc", `{"type":"manga","title":"Vagabond","episodes":"327"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 327, entries.updated["abc"].Progress)
}

func TestUpdateEntryIgnoresType(t *testing.T) {
	entries := &fakeEntries{}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodPut, "/api/entries/9", `{"title":"X"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/entries/9", `{"type":"manga","title":"X"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, entries.updated["9"].Type)
}

func TestRemoteFailureIsBadGateway(t *testing.T) {
	entries := &fakeEntries{err: errors.New("not found")}
	h := newTestServer(entries, true)

	rec := do(t, h, http.MethodPut, "/api/entries/zzz", `{"type":"anime","title":"X"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/entries/zzz", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNoUserIsUnauthorized(t *testing.T) {
	entries := &fakeEntries{err: controllers.ErrNoUser}

	rec := do(t, newTestServer(entries, true), http.MethodDelete, "/api/entries/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	entries := &fakeEntries{}

	rec := do(t, newTestServer(entries, true), http.MethodDelete, "/api/entries/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"7"}, entries.deleted)
}
