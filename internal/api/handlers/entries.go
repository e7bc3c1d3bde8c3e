package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// EntryStore is the record store as seen by the HTTP layer
type EntryStore interface {
	ListAll(ctx context.Context) []models.RawRecord
	LocalEntries() []models.RawRecord
	LastSync() (time.Time, bool)
	Create(ctx context.Context, rec models.Record) (string, error)
	Update(ctx context.Context, id string, rec models.Record) error
	Delete(ctx context.Context, id string) error
}

// EntriesHandler serves the record list and its mutations
type EntriesHandler struct {
	entries EntryStore
	logger  *logrus.Logger
	now     func() time.Time
}

// NewEntriesHandler creates a new entries handler
func NewEntriesHandler(entries EntryStore, logger *logrus.Logger) *EntriesHandler {
	return &EntriesHandler{
		entries: entries,
		logger:  logger,
		now:     time.Now,
	}
}

// EntryRequest is the body of create and update requests. Values may be
// sent as JSON strings or numbers.
type EntryRequest map[string]any

func (req EntryRequest) text(key string) string {
	switch v := req[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (req EntryRequest) form() utils.FormValues {
	return utils.FormValues{
		Title:        req.text(models.FieldTitle),
		Status:       req.text(models.FieldStatus),
		Progress:     req.text(models.FieldProgress),
		Rating:       req.text(models.FieldRating),
		ImageURL:     req.text(models.FieldImageURL),
		YoutubeURL:   req.text(models.FieldYoutubeURL),
		StreamingURL: req.text(models.FieldStreamingURL),
		Notes:        req.text(models.FieldNotes),
	}
}

// ListResponse is the body of a list request
type ListResponse struct {
	Entries []models.ViewModel `json:"entries"`
	Count   int                `json:"count"`
}

// List handles GET /api/entries?type=&status=&q=&sort=
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := utils.Query{
		Type:   models.MediaType(params.Get("type")),
		Status: params.Get("status"),
		Text:   params.Get("q"),
	}
	if query.Type != "" && !query.Type.Valid() {
		writeError(w, &utils.ValidationError{Field: "type", Message: fmt.Sprintf("Unknown type %q", query.Type)}, h.logger)
		return
	}

	sortKey := utils.SortKey(params.Get("sort"))
	switch sortKey {
	case utils.SortNone, utils.SortTitle, utils.SortRating, utils.SortUpdated:
	default:
		writeError(w, &utils.ValidationError{Field: "sort", Message: fmt.Sprintf("Unknown sort order %q", sortKey)}, h.logger)
		return
	}

	vms := utils.Sort(utils.Filter(utils.Project(h.entries.ListAll(r.Context())), query), sortKey)

	writeJSON(w, http.StatusOK, ListResponse{Entries: vms, Count: len(vms)}, h.logger)
}

// Create handles POST /api/entries
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, err := h.decodeRecord(w, r, true)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	id, err := h.entries.Create(r.Context(), rec)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id}, h.logger)
}

// Update handles PUT /api/entries/{id}
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := h.decodeRecord(w, r, false)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.entries.Update(r.Context(), id, rec); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/entries/{id}
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeRecord reads an entry body. The type is only read on create; an
// update keeps the stored one.
func (h *EntriesHandler) decodeRecord(w http.ResponseWriter, r *http.Request, withType bool) (models.Record, error) {
	var req EntryRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil || req == nil {
		h.logger.WithError(err).Debug("Failed to decode entry")
		return models.Record{}, &utils.ValidationError{Field: "body", Message: "Invalid JSON body"}
	}

	var mediaType models.MediaType
	if withType {
		mediaType = models.MediaType(req.text(models.FieldType))
		if !mediaType.Valid() {
			return models.Record{}, &utils.ValidationError{Field: models.FieldType, Message: fmt.Sprintf("Unknown type %q", mediaType)}
		}
	}

	return utils.ToStoragePayload(mediaType, req.form(), h.now())
}
