package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/keystore"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// LivezHandler always reports ok while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports ready once the database (and the key store, when its
// driver implements keystore.Pinger) answers.
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys keystore.KeyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			slogx.FromContext(r.Context()).Error("readiness: database unreachable", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Uptime:  time.Since(startTime).String(),
				Version: version,
			})
			return
		}

		if p, ok := keys.(keystore.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				slogx.FromContext(r.Context()).Error("readiness: key store unreachable", "error", err)
				httpx.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Uptime:  time.Since(startTime).String(),
					Version: version,
				})
				return
			}
		}

		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// AvatarHandler streams stored avatars. Avatars are public; the keys are
// unguessable only insofar as user ids are.
func AvatarHandler(blobs blob.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		if file == "" {
			http.NotFound(w, r)
			return
		}

		body, contentType, err := blobs.Get(r.Context(), "avatars/"+file)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				http.NotFound(w, r)
				return
			}
			writeServiceError(w, r, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, body)
	}
}
