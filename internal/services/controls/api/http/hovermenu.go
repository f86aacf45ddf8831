package httpapi

import (
	"math"
	"net/http"
	"time"

	apperrors "github.com/louisbranch/controlkit/internal/platform/errors"
	"github.com/louisbranch/controlkit/internal/platform/httpx"
	"github.com/louisbranch/controlkit/internal/services/controls/hovermenu"
)

// hoverMenuConfig is the wire form of hovermenu.Config. Delays are in
// milliseconds.
type hoverMenuConfig struct {
	PopupControlID string               `json:"popup_control_id"`
	HoverCSSClass  string               `json:"hover_css_class,omitempty"`
	OffsetX        int                  `json:"offset_x,omitempty"`
	OffsetY        int                  `json:"offset_y,omitempty"`
	PopDelayMS     int64                `json:"pop_delay_ms,omitempty"`
	HoverDelayMS   int64                `json:"hover_delay_ms,omitempty"`
	PopupPosition  hovermenu.Position   `json:"popup_position,omitempty"`
	OnShow         *hovermenu.Animation `json:"on_show,omitempty"`
	OnHide         *hovermenu.Animation `json:"on_hide,omitempty"`
	// ControlIDs maps server control ids to client ids. When set, the popup
	// id, the target id and animation targets must all resolve through it.
	ControlIDs map[string]string `json:"control_ids,omitempty"`
}

type hoverMenuRequest struct {
	TargetID string          `json:"target_id"`
	Config   hoverMenuConfig `json:"config"`
}

// maxDelayMS is the largest millisecond delay a time.Duration can hold.
const maxDelayMS = math.MaxInt64 / int64(time.Millisecond)

func (c hoverMenuConfig) toConfig() (hovermenu.Config, error) {
	popDelay, err := delayFromMS("pop_delay_ms", c.PopDelayMS)
	if err != nil {
		return hovermenu.Config{}, err
	}
	hoverDelay, err := delayFromMS("hover_delay_ms", c.HoverDelayMS)
	if err != nil {
		return hovermenu.Config{}, err
	}
	return hovermenu.Config{
		PopupControlID: c.PopupControlID,
		HoverCSSClass:  c.HoverCSSClass,
		OffsetX:        c.OffsetX,
		OffsetY:        c.OffsetY,
		PopDelay:       popDelay,
		HoverDelay:     hoverDelay,
		PopupPosition:  c.PopupPosition,
		OnShow:         c.OnShow,
		OnHide:         c.OnHide,
	}, nil
}

// delayFromMS converts ms to a duration. Negative values pass through so
// validation reports them as negative delays.
func delayFromMS(field string, ms int64) (time.Duration, error) {
	if ms > maxDelayMS || ms < -maxDelayMS {
		return 0, apperrors.New(apperrors.CodeHoverMenuConfigInvalid, field+" is out of range")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (c hoverMenuConfig) resolver() hovermenu.IDResolver {
	if len(c.ControlIDs) == 0 {
		return nil
	}
	return func(serverID string) (string, bool) {
		clientID, ok := c.ControlIDs[serverID]
		return clientID, ok
	}
}

func (h *Handler) handleHoverMenuDescriptor(w http.ResponseWriter, r *http.Request) {
	desc, err := decodeHoverMenuDescriptor(w, r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, desc)
}

func (h *Handler) handleHoverMenuScript(w http.ResponseWriter, r *http.Request) {
	desc, err := decodeHoverMenuDescriptor(w, r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	script, err := desc.Script()
	if err != nil {
		httpx.WriteError(w, r, domainError(err))
		return
	}
	_ = httpx.WriteText(w, http.StatusOK, "text/javascript; charset=utf-8", script)
}

func decodeHoverMenuDescriptor(w http.ResponseWriter, r *http.Request) (hovermenu.Descriptor, error) {
	var body hoverMenuRequest
	if err := decodeJSONBody(w, r, &body); err != nil {
		return hovermenu.Descriptor{}, err
	}
	cfg, err := body.Config.toConfig()
	if err != nil {
		return hovermenu.Descriptor{}, err
	}
	desc, err := cfg.ResolvedDescriptor(body.TargetID, body.Config.resolver())
	if err != nil {
		return hovermenu.Descriptor{}, domainError(err)
	}
	return desc, nil
}
