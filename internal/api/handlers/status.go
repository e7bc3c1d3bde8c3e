package handlers

import (
	"net/http"
	"time"

	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/sirupsen/logrus"
)

// ConnectionState reports the last observed reachability of the remote store
type ConnectionState interface {
	Online() bool
}

// StatusHandler reports connectivity, cache freshness and list counters
type StatusHandler struct {
	entries EntryStore
	conn    ConnectionState
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(entries EntryStore, conn ConnectionState, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		entries: entries,
		conn:    conn,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Online   bool                                  `json:"online"`
	LastSync *time.Time                            `json:"last_sync"`
	Total    int                                   `json:"total"`
	Counts   map[models.MediaType]utils.TypeCounts `json:"counts"`
}

// ServeHTTP reads only the local cache; it never reaches the remote store
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vms := utils.Project(h.entries.LocalEntries())

	response := StatusResponse{
		Online: h.conn.Online(),
		Total:  len(vms),
		Counts: utils.Counts(vms),
	}
	if at, ok := h.entries.LastSync(); ok {
		response.LastSync = &at
	}

	writeJSON(w, http.StatusOK, response, h.logger)
}
