// Package httpapi exposes avatar URLs, saved profiles, and hover-menu
// descriptors over HTTP.
package httpapi

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	"github.com/louisbranch/controlkit/internal/platform/httpx"
	"github.com/louisbranch/controlkit/internal/platform/pagination"
	"github.com/louisbranch/controlkit/internal/services/controls/storage"
)

const maxBodyBytes = 64 << 10

var profilePageSize = pagination.PageSizeConfig{Default: 20, Max: 100}

// Handler serves the controls HTTP API.
type Handler struct {
	store   storage.ProfileStore
	builder gravatar.Builder
}

// NewHandler returns a handler backed by store. Profile routes answer 500
// when store is nil.
func NewHandler(store storage.ProfileStore, builder gravatar.Builder) *Handler {
	return &Handler{store: store, builder: builder}
}

// Routes returns the routed, instrumented handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET /avatar/url", h.handleAvatarURL)
	mux.HandleFunc("GET /avatar", h.handleAvatarRedirect)
	mux.HandleFunc("GET /avatar/img", h.handleAvatarImage)

	mux.HandleFunc("GET /profiles", h.handleListProfiles)
	mux.HandleFunc("PUT /profiles/{id}", h.handlePutProfile)
	mux.HandleFunc("GET /profiles/{id}", h.handleGetProfile)
	mux.HandleFunc("DELETE /profiles/{id}", h.handleDeleteProfile)
	mux.HandleFunc("GET /profiles/{id}/avatar", h.handleProfileAvatar)
	mux.HandleFunc("GET /profiles/{id}/card", h.handleProfileCard)

	mux.HandleFunc("POST /hovermenu/descriptor", h.handleHoverMenuDescriptor)
	mux.HandleFunc("POST /hovermenu/script", h.handleHoverMenuScript)

	return httpx.Chain(mux,
		httpx.RequestID("controls"),
		httpx.RecoverPanic(),
		httpx.Trace(),
		httpx.AccessLog(),
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeHTML renders c fully before writing so a render failure can still
// produce an error status.
func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(httpx.RequestContext(r), &buf); err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	_ = httpx.WriteText(w, http.StatusOK, "text/html; charset=utf-8", buf.String())
}
