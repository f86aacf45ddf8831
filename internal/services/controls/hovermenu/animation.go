package hovermenu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// animationTargetKey names the property that points an animation step at a
// control other than the popup.
const animationTargetKey = "AnimationTarget"

// Animation is an opaque client animation description, kept as JSON.
type Animation struct {
	raw json.RawMessage
}

// NewAnimation wraps a JSON object describing a client animation.
func NewAnimation(raw []byte) (*Animation, error) {
	animation := &Animation{raw: append(json.RawMessage(nil), bytes.TrimSpace(raw)...)}
	if err := animation.validate(); err != nil {
		return nil, err
	}
	return animation, nil
}

// JSON returns a copy of the animation document.
func (a *Animation) JSON() []byte {
	if a == nil {
		return nil
	}
	return append([]byte(nil), a.raw...)
}

// MarshalJSON implements json.Marshaler.
func (a *Animation) MarshalJSON() ([]byte, error) {
	if a == nil || len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.JSON(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Animation) UnmarshalJSON(data []byte) error {
	a.raw = append(a.raw[:0], bytes.TrimSpace(data)...)
	return a.validate()
}

func (a *Animation) validate() error {
	if a == nil || len(a.raw) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(a.raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnimation, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: document is null", ErrInvalidAnimation)
	}
	return nil
}

func (a *Animation) resolve(resolve IDResolver) (*Animation, error) {
	if a == nil || len(a.raw) == 0 {
		return a, nil
	}
	var doc any
	if err := json.Unmarshal(a.raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnimation, err)
	}
	resolved, err := resolveTargets(doc, resolve)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("marshal animation: %w", err)
	}
	return &Animation{raw: raw}, nil
}

func resolveTargets(node any, resolve IDResolver) (any, error) {
	switch value := node.(type) {
	case map[string]any:
		for key, child := range value {
			if target, ok := child.(string); ok && strings.EqualFold(key, animationTargetKey) {
				if strings.TrimSpace(target) == "" {
					continue
				}
				clientID, err := resolveID(resolve, target)
				if err != nil {
					return nil, err
				}
				value[key] = clientID
				continue
			}
			resolvedChild, err := resolveTargets(child, resolve)
			if err != nil {
				return nil, err
			}
			value[key] = resolvedChild
		}
		return value, nil
	case []any:
		for idx, child := range value {
			resolvedChild, err := resolveTargets(child, resolve)
			if err != nil {
				return nil, err
			}
			value[idx] = resolvedChild
		}
		return value, nil
	default:
		return node, nil
	}
}
