package stubapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"gorm.io/gorm"

	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/pkg/logger"
)

func (srv *Server) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	}); err != nil {
		srv.logger.Error("failed to encode response", "error", err)
	}
}

// writeLegacyData reproduces the older success-boolean envelope a few
// production endpoints still use, so the client's handling of it stays
// exercised.
func (srv *Server) writeLegacyData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	}); err != nil {
		srv.logger.Error("failed to encode response", "error", err)
	}
}

func (srv *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
	}); err != nil {
		srv.logger.Error("failed to encode error response", "error", err)
	}
}

func (srv *Server) handleList(schema entity.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := srv.store.list(schema.Kind)
		if err != nil {
			logger.From(r.Context()).Error("list failed", "kind", schema.Kind, "error", err)
			srv.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		srv.writeData(w, http.StatusOK, records)
	}
}

func (srv *Server) handleGet(schema entity.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := srv.store.get(schema.Kind, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				srv.writeError(w, http.StatusNotFound, "record not found")
				return
			}
			logger.From(r.Context()).Error("get failed", "kind", schema.Kind, "id", id, "error", err)
			srv.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		srv.writeData(w, http.StatusOK, rec)
	}
}

func (srv *Server) handleCreate(schema entity.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload entity.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			srv.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if verr := schema.Validate(payload); verr != nil {
			srv.writeError(w, http.StatusBadRequest, verr.GetDetailedMessage())
			return
		}

		created, err := srv.store.create(schema.Kind, payload)
		if err != nil {
			logger.From(r.Context()).Error("create failed", "kind", schema.Kind, "error", err)
			srv.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		// Customers keep the legacy envelope, matching the production
		// backend's inconsistency.
		if schema.Kind == entity.KindCustomers {
			srv.writeLegacyData(w, http.StatusCreated, created)
			return
		}
		srv.writeData(w, http.StatusCreated, created)
	}
}

func (srv *Server) handleUpdate(schema entity.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch entity.Record
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			srv.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := srv.store.update(schema.Kind, id, patch)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				srv.writeError(w, http.StatusNotFound, "record not found")
				return
			}
			logger.From(r.Context()).Error("update failed", "kind", schema.Kind, "id", id, "error", err)
			srv.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		srv.writeData(w, http.StatusOK, updated)
	}
}

func (srv *Server) handleDelete(schema entity.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := srv.store.delete(schema.Kind, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				srv.writeError(w, http.StatusNotFound, "record not found")
				return
			}
			logger.From(r.Context()).Error("delete failed", "kind", schema.Kind, "id", id, "error", err)
			srv.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		srv.writeData(w, http.StatusOK, nil)
	}
}

func (srv *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := srv.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		srv.writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	srv.writeData(w, http.StatusOK, map[string]string{"status": "healthy"})
}
