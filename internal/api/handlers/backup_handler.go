package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/fittrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// BackupHandler handles HTTP requests related to backups.
type BackupHandler struct {
	service services.BackupServiceProvider
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(service services.BackupServiceProvider) *BackupHandler {
	return &BackupHandler{service: service}
}

// GetAll lists the available backups, newest first.
func (h *BackupHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	backups, err := h.service.ListBackups(r.Context())
	if err != nil {
		respondWithError(w, r, err, "list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

// Create takes a backup of the document store.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	backup, err := h.service.CreateBackup(r.Context())
	if err != nil {
		respondWithError(w, r, err, "create backup")
		return
	}
	writeJSON(w, http.StatusCreated, backup)
}

// Restore replaces the document store with the named backup.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.service.RestoreBackup(r.Context(), name); err != nil {
		respondWithError(w, r, err, "restore backup")
		return
	}

	log.Ctx(r.Context()).Info().Str("backup", name).Msg("Backup restored via API")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backup " + name + " restored."})
}
