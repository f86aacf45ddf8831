package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	apperrors "github.com/louisbranch/controlkit/internal/platform/errors"
	"github.com/louisbranch/controlkit/internal/platform/httpx"
	"github.com/louisbranch/controlkit/internal/platform/pagination"
	"github.com/louisbranch/controlkit/internal/services/controls/hovermenu"
	"github.com/louisbranch/controlkit/internal/services/controls/render"
	"github.com/louisbranch/controlkit/internal/services/controls/storage"
)

// profileRequest is the PUT /profiles/{id} body. Enum fields accept the same
// tokens and names as the avatar query parameters.
type profileRequest struct {
	Email                string `json:"email"`
	Size                 *int   `json:"size,omitempty"`
	DefaultImage         string `json:"default_image,omitempty"`
	DefaultImageBehavior string `json:"default_image_behavior,omitempty"`
	Rating               string `json:"rating,omitempty"`
}

type profileResponse struct {
	ProfileID            string    `json:"profile_id"`
	Email                string    `json:"email"`
	Hash                 string    `json:"hash"`
	Size                 int       `json:"size"`
	DefaultImage         string    `json:"default_image,omitempty"`
	DefaultImageBehavior string    `json:"default_image_behavior"`
	Rating               string    `json:"rating"`
	URL                  string    `json:"url"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type profilePageResponse struct {
	Profiles      []profileResponse `json:"profiles"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

func (h *Handler) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	var body profileRequest
	if err := decodeJSONBody(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	behavior, err := gravatar.ParseDefaultImageBehavior(body.DefaultImageBehavior)
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	rating, err := gravatar.ParseRating(body.Rating)
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	stored, err := h.store.PutProfile(httpx.RequestContext(r), storage.AvatarProfile{
		ProfileID:            r.PathValue("id"),
		Email:                body.Email,
		Size:                 body.Size,
		DefaultImage:         body.DefaultImage,
		DefaultImageBehavior: behavior,
		Rating:               rating,
	})
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, h.profileResponse(stored))
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, h.profileResponse(profile))
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	id := r.PathValue("id")
	if err := h.store.DeleteProfile(httpx.RequestContext(r), id); err != nil {
		httpx.WriteError(w, r, profileError(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	query := r.URL.Query()
	pageSize, err := pagination.ParsePageSize(query.Get("page_size"), profilePageSize)
	if err != nil {
		httpx.WriteError(w, r, apperrors.Wrap(apperrors.CodeProfilePageSizeInvalid, fmt.Sprintf("page_size must be an integer between 1 and %d", profilePageSize.Max), err))
		return
	}
	page, err := h.store.ListProfiles(httpx.RequestContext(r), pageSize, query.Get("page_token"))
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	resp := profilePageResponse{
		Profiles:      make([]profileResponse, 0, len(page.Profiles)),
		NextPageToken: page.NextPageToken,
	}
	for _, profile := range page.Profiles {
		resp.Profiles = append(resp.Profiles, h.profileResponse(profile))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleProfileAvatar(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, h.builder.URL(profile.Request()), http.StatusFound)
}

// handleProfileCard renders the profile's avatar with a hover popup. The
// popup shows the popup query value, or the profile id when absent.
func (h *Handler) handleProfileCard(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	position, err := hovermenu.ParsePosition(query.Get("position"))
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	popupText := strings.TrimSpace(query.Get("popup"))
	if popupText == "" {
		popupText = profile.ProfileID
	}
	h.writeHTML(w, r, render.ProfileCard(render.ProfileCardProps{
		Avatar: render.AvatarImageProps{
			Builder: h.builder,
			Request: profile.Request(),
			Alt:     profile.ProfileID,
			Class:   "avatar",
			ID:      "avatar_" + profile.ProfileID,
		},
		Popup: templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, templ.EscapeString(popupText))
			return err
		}),
		HoverMenu: hovermenu.Config{PopupPosition: position},
	}))
}

func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (storage.AvatarProfile, bool) {
	if !h.requireStore(w, r) {
		return storage.AvatarProfile{}, false
	}
	id := r.PathValue("id")
	profile, err := h.store.GetProfile(httpx.RequestContext(r), id)
	if err != nil {
		httpx.WriteError(w, r, profileError(err, id))
		return storage.AvatarProfile{}, false
	}
	return profile, true
}

func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		httpx.WriteError(w, r, errors.New("profile store is not configured"))
		return false
	}
	return true
}

func (h *Handler) profileResponse(profile storage.AvatarProfile) profileResponse {
	req := profile.Request()
	return profileResponse{
		ProfileID:            profile.ProfileID,
		Email:                profile.Email,
		Hash:                 gravatar.Hash(profile.Email),
		Size:                 req.EffectiveSize(),
		DefaultImage:         profile.DefaultImage,
		DefaultImageBehavior: profile.DefaultImageBehavior.String(),
		Rating:               profile.Rating.String(),
		URL:                  h.builder.URL(req),
		CreatedAt:            profile.CreatedAt,
		UpdatedAt:            profile.UpdatedAt,
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) error {
	if r.Body == nil {
		return apperrors.New(apperrors.CodeRequestBodyInvalid, "request body is required")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeRequestBodyInvalid, "request body is invalid: "+err.Error(), err)
	}
	if decoder.More() {
		return apperrors.New(apperrors.CodeRequestBodyInvalid, "request body must hold a single json object")
	}
	return nil
}
