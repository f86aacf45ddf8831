// Package hovermenu configures the hover-menu extender: a popup element shown
// next to a target element while the pointer is over it.
//
// The package only produces the client behavior's initialization parameters.
// Showing, positioning and animating the popup happens in the browser.
package hovermenu

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BehaviorType is the client-side behavior created for each extender.
const BehaviorType = "Sys.Extended.UI.HoverMenuBehavior"

var (
	// ErrPopupControlIDRequired reports a missing popup element id.
	ErrPopupControlIDRequired = errors.New("popup control id is required")
	// ErrTargetIDRequired reports a missing target element id.
	ErrTargetIDRequired = errors.New("target control id is required")
	// ErrNegativeDelay reports a negative hover or pop delay.
	ErrNegativeDelay = errors.New("delay must not be negative")
	// ErrUnresolvedControlID reports a server id the resolver does not know.
	ErrUnresolvedControlID = errors.New("control id could not be resolved")
	// ErrInvalidAnimation reports an animation that is not a JSON object.
	ErrInvalidAnimation = errors.New("animation must be a json object")
	// ErrInvalidBehaviorType reports a behavior type that is not a dotted
	// script identifier.
	ErrInvalidBehaviorType = errors.New("behavior type is invalid")
)

// Config holds every extender option. The zero value of each field except
// PopupControlID is its default.
type Config struct {
	// PopupControlID is the element displayed while hovering the target.
	PopupControlID string
	// HoverCSSClass is applied to the target while the popup is visible.
	HoverCSSClass string
	// OffsetX and OffsetY shift the popup from PopupPosition, in pixels.
	// Negative values overlap the target.
	OffsetX int
	OffsetY int
	// PopDelay keeps the popup visible after the pointer leaves the target.
	PopDelay time.Duration
	// HoverDelay waits before showing the popup.
	HoverDelay    time.Duration
	PopupPosition Position
	OnShow        *Animation
	OnHide        *Animation
}

// Validate reports configuration errors that would break the client behavior.
func (c Config) Validate() error {
	if strings.TrimSpace(c.PopupControlID) == "" {
		return ErrPopupControlIDRequired
	}
	if c.PopDelay < 0 || c.HoverDelay < 0 {
		return ErrNegativeDelay
	}
	if _, err := c.PopupPosition.MarshalText(); err != nil {
		return err
	}
	for _, animation := range []*Animation{c.OnShow, c.OnHide} {
		if animation == nil {
			continue
		}
		if err := animation.validate(); err != nil {
			return err
		}
	}
	return nil
}

// IDResolver maps a server-side control id to the id rendered in the page.
type IDResolver func(serverID string) (clientID string, ok bool)

// Resolve returns a copy with the popup id and animation targets mapped to
// client ids. A nil resolver leaves ids unchanged.
func (c Config) Resolve(resolve IDResolver) (Config, error) {
	if resolve == nil {
		return c, nil
	}
	out := c
	popupID, err := resolveID(resolve, c.PopupControlID)
	if err != nil {
		return Config{}, err
	}
	out.PopupControlID = popupID
	if c.OnShow != nil {
		onShow, err := c.OnShow.resolve(resolve)
		if err != nil {
			return Config{}, fmt.Errorf("on show: %w", err)
		}
		out.OnShow = onShow
	}
	if c.OnHide != nil {
		onHide, err := c.OnHide.resolve(resolve)
		if err != nil {
			return Config{}, fmt.Errorf("on hide: %w", err)
		}
		out.OnHide = onHide
	}
	return out, nil
}

// ClientProperties returns the client behavior properties keyed by their
// client names. Options equal to their default are left out; popupElement is
// always present.
func (c Config) ClientProperties() map[string]any {
	props := map[string]any{
		"popupElement": strings.TrimSpace(c.PopupControlID),
	}
	if class := strings.TrimSpace(c.HoverCSSClass); class != "" {
		props["hoverCssClass"] = class
	}
	if c.OffsetX != 0 {
		props["offsetX"] = c.OffsetX
	}
	if c.OffsetY != 0 {
		props["offsetY"] = c.OffsetY
	}
	if c.PopDelay != 0 {
		props["popDelay"] = c.PopDelay.Milliseconds()
	}
	if c.HoverDelay != 0 {
		props["hoverDelay"] = c.HoverDelay.Milliseconds()
	}
	if c.PopupPosition != PositionCenter {
		props["popupPosition"] = c.PopupPosition.String()
	}
	if c.OnShow != nil && len(c.OnShow.raw) > 0 {
		props["onShow"] = string(c.OnShow.raw)
	}
	if c.OnHide != nil && len(c.OnHide.raw) > 0 {
		props["onHide"] = string(c.OnHide.raw)
	}
	return props
}

// Descriptor is the client behavior created for one target element.
type Descriptor struct {
	Type       string         `json:"type"`
	TargetID   string         `json:"target_id"`
	Properties map[string]any `json:"properties"`
}

// Descriptor validates the config and describes the behavior for targetID.
func (c Config) Descriptor(targetID string) (Descriptor, error) {
	target := strings.TrimSpace(targetID)
	if target == "" {
		return Descriptor{}, ErrTargetIDRequired
	}
	if err := c.Validate(); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Type:       BehaviorType,
		TargetID:   target,
		Properties: c.ClientProperties(),
	}, nil
}

// ResolvedDescriptor resolves c and targetID through resolve and builds the
// descriptor. The target follows the same rule as the popup: an id the
// resolver does not know fails with ErrUnresolvedControlID. A nil resolve
// leaves both unchanged.
func (c Config) ResolvedDescriptor(targetID string, resolve IDResolver) (Descriptor, error) {
	resolved, err := c.Resolve(resolve)
	if err != nil {
		return Descriptor{}, err
	}
	if resolve != nil {
		if strings.TrimSpace(targetID) == "" {
			return Descriptor{}, ErrTargetIDRequired
		}
		if targetID, err = resolveID(resolve, targetID); err != nil {
			return Descriptor{}, fmt.Errorf("target: %w", err)
		}
	}
	return resolved.Descriptor(targetID)
}

// Script renders the page initialization call that creates the behavior.
func (d Descriptor) Script() (string, error) {
	if strings.TrimSpace(d.TargetID) == "" {
		return "", ErrTargetIDRequired
	}
	behaviorType := strings.TrimSpace(d.Type)
	if behaviorType == "" {
		behaviorType = BehaviorType
	}
	if !isScriptIdentifier(behaviorType) {
		return "", ErrInvalidBehaviorType
	}
	props := d.Properties
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("marshal properties: %w", err)
	}
	targetJSON, err := json.Marshal(d.TargetID)
	if err != nil {
		return "", fmt.Errorf("marshal target id: %w", err)
	}
	return fmt.Sprintf(
		"Sys.Application.add_init(function() {\n    $create(%s, %s, null, null, $get(%s));\n});",
		behaviorType,
		propsJSON,
		targetJSON,
	), nil
}

func resolveID(resolve IDResolver, serverID string) (string, error) {
	id := strings.TrimSpace(serverID)
	if id == "" {
		return "", ErrPopupControlIDRequired
	}
	clientID, ok := resolve(id)
	if !ok || strings.TrimSpace(clientID) == "" {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedControlID, id)
	}
	return clientID, nil
}

// isScriptIdentifier reports whether value is a dotted identifier safe to
// emit unquoted, such as Sys.Extended.UI.HoverMenuBehavior.
func isScriptIdentifier(value string) bool {
	for _, part := range strings.Split(value, ".") {
		if part == "" {
			return false
		}
		for idx, r := range part {
			switch {
			case r == '_' || r == '$':
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && idx > 0:
			default:
				return false
			}
		}
	}
	return true
}
