package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	apperrors "github.com/louisbranch/controlkit/internal/platform/errors"
	"github.com/louisbranch/controlkit/internal/platform/httpx"
	"github.com/louisbranch/controlkit/internal/services/controls/render"
	"github.com/louisbranch/controlkit/internal/services/controls/storage"
)

type avatarURLResponse struct {
	URL  string `json:"url"`
	Hash string `json:"hash"`
	Size int    `json:"size"`
}

func (h *Handler) handleAvatarURL(w http.ResponseWriter, r *http.Request) {
	req, err := parseAvatarQuery(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, avatarURLResponse{
		URL:  h.builder.URL(req),
		Hash: gravatar.Hash(req.Email),
		Size: req.EffectiveSize(),
	})
}

func (h *Handler) handleAvatarRedirect(w http.ResponseWriter, r *http.Request) {
	req, err := parseAvatarQuery(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	http.Redirect(w, r, h.builder.URL(req), http.StatusFound)
}

func (h *Handler) handleAvatarImage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req, err := parseAvatarQuery(query)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	h.writeHTML(w, r, render.AvatarImage(render.AvatarImageProps{
		Builder: h.builder,
		Request: req,
		Alt:     query.Get("alt"),
		Class:   query.Get("class"),
		ID:      query.Get("id"),
	}))
}

// parseAvatarQuery reads email, s, d, default, and r. The email must be
// ASCII, s must be within 1..storage.MaxSize, and d/r must name known values.
func parseAvatarQuery(query url.Values) (gravatar.Request, error) {
	req := gravatar.Request{
		Email:        strings.TrimSpace(query.Get("email")),
		DefaultImage: strings.TrimSpace(query.Get("default")),
	}
	if err := gravatar.ValidateEmail(req.Email); err != nil {
		return gravatar.Request{}, apperrors.Wrap(apperrors.CodeAvatarEmailInvalid, "email must contain only ASCII characters", err)
	}
	if raw := strings.TrimSpace(query.Get("s")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > storage.MaxSize {
			return gravatar.Request{}, apperrors.New(apperrors.CodeAvatarSizeInvalid, fmt.Sprintf("s must be an integer between 1 and %d", storage.MaxSize))
		}
		req.Size = gravatar.SizePtr(size)
	}
	behavior, err := gravatar.ParseDefaultImageBehavior(query.Get("d"))
	if err != nil {
		return gravatar.Request{}, apperrors.Wrap(apperrors.CodeAvatarBehaviorInvalid, fmt.Sprintf("d %q is not a known default image", query.Get("d")), err)
	}
	req.DefaultImageBehavior = behavior
	rating, err := gravatar.ParseRating(query.Get("r"))
	if err != nil {
		return gravatar.Request{}, apperrors.Wrap(apperrors.CodeAvatarRatingInvalid, fmt.Sprintf("r %q is not a known rating", query.Get("r")), err)
	}
	req.Rating = rating
	return req, nil
}
