package hovermenu

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_RequiresPopupControlID(t *testing.T) {
	if err := (Config{}).Validate(); !errors.Is(err, ErrPopupControlIDRequired) {
		t.Fatalf("Validate() = %v, want %v", err, ErrPopupControlIDRequired)
	}
	if err := (Config{PopupControlID: "   "}).Validate(); !errors.Is(err, ErrPopupControlIDRequired) {
		t.Fatalf("Validate() blank = %v, want %v", err, ErrPopupControlIDRequired)
	}
	if err := (Config{PopupControlID: "panel"}).Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_RejectsNegativeDelayAndUnknownPosition(t *testing.T) {
	if err := (Config{PopupControlID: "panel", PopDelay: -time.Millisecond}).Validate(); !errors.Is(err, ErrNegativeDelay) {
		t.Fatalf("Validate() = %v, want %v", err, ErrNegativeDelay)
	}
	if err := (Config{PopupControlID: "panel", PopupPosition: Position(9)}).Validate(); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("Validate() = %v, want %v", err, ErrUnknownPosition)
	}
}

func TestClientProperties_OmitsDefaults(t *testing.T) {
	props := Config{PopupControlID: "panel"}.ClientProperties()
	if len(props) != 1 {
		t.Fatalf("props = %v, want only popupElement", props)
	}
	if props["popupElement"] != "panel" {
		t.Fatalf("popupElement = %v, want panel", props["popupElement"])
	}
}

func TestClientProperties_UsesClientNames(t *testing.T) {
	onShow, err := NewAnimation([]byte(`{"AnimationName":"FadeIn","Duration":".2"}`))
	if err != nil {
		t.Fatalf("new animation: %v", err)
	}
	props := Config{
		PopupControlID: "panel",
		HoverCSSClass:  "popupHover",
		OffsetX:        -4,
		OffsetY:        12,
		PopDelay:       250 * time.Millisecond,
		HoverDelay:     time.Second,
		PopupPosition:  PositionRight,
		OnShow:         onShow,
	}.ClientProperties()

	want := map[string]any{
		"popupElement":  "panel",
		"hoverCssClass": "popupHover",
		"offsetX":       -4,
		"offsetY":       12,
		"popDelay":      int64(250),
		"hoverDelay":    int64(1000),
		"popupPosition": "Right",
		"onShow":        `{"AnimationName":"FadeIn","Duration":".2"}`,
	}
	if len(props) != len(want) {
		t.Fatalf("props = %v, want %v", props, want)
	}
	for key, value := range want {
		if props[key] != value {
			t.Fatalf("props[%q] = %#v, want %#v", key, props[key], value)
		}
	}
}

func TestDescriptor_RequiresTargetAndValidConfig(t *testing.T) {
	if _, err := (Config{PopupControlID: "panel"}).Descriptor(" "); !errors.Is(err, ErrTargetIDRequired) {
		t.Fatalf("Descriptor() = %v, want %v", err, ErrTargetIDRequired)
	}
	if _, err := (Config{}).Descriptor("target"); !errors.Is(err, ErrPopupControlIDRequired) {
		t.Fatalf("Descriptor() = %v, want %v", err, ErrPopupControlIDRequired)
	}
	desc, err := Config{PopupControlID: "panel"}.Descriptor("target")
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	if desc.Type != BehaviorType || desc.TargetID != "target" {
		t.Fatalf("descriptor = %+v", desc)
	}
}

func TestDescriptorScript(t *testing.T) {
	desc, err := Config{PopupControlID: "panel", OffsetX: 3}.Descriptor("avatar")
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	script, err := desc.Script()
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	want := "Sys.Application.add_init(function() {\n    $create(Sys.Extended.UI.HoverMenuBehavior, {\"offsetX\":3,\"popupElement\":\"panel\"}, null, null, $get(\"avatar\"));\n});"
	if script != want {
		t.Fatalf("script = %q, want %q", script, want)
	}
}

func TestDescriptorScript_EscapesMarkup(t *testing.T) {
	desc, err := Config{PopupControlID: "</script><b>"}.Descriptor("t")
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	script, err := desc.Script()
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if strings.Contains(script, "</script>") {
		t.Fatalf("script = %q, markup must be escaped", script)
	}
}

func TestDescriptorScript_RejectsUnsafeType(t *testing.T) {
	desc := Descriptor{Type: "alert(1);Sys", TargetID: "t"}
	if _, err := desc.Script(); !errors.Is(err, ErrInvalidBehaviorType) {
		t.Fatalf("Script() = %v, want %v", err, ErrInvalidBehaviorType)
	}
	desc = Descriptor{TargetID: "t"}
	script, err := desc.Script()
	if err != nil {
		t.Fatalf("script with default type: %v", err)
	}
	if !strings.Contains(script, "$create(Sys.Extended.UI.HoverMenuBehavior, {}") {
		t.Fatalf("script = %q", script)
	}
}

func TestResolve_MapsPopupAndAnimationTargets(t *testing.T) {
	onShow, err := NewAnimation([]byte(`{"AnimationName":"Sequence","AnimationChildren":[{"AnimationName":"FadeIn","AnimationTarget":"Panel1"}]}`))
	if err != nil {
		t.Fatalf("new animation: %v", err)
	}
	ids := map[string]string{"Panel1": "ctl00_Panel1", "Popup": "ctl00_Popup"}
	resolver := func(serverID string) (string, bool) {
		clientID, ok := ids[serverID]
		return clientID, ok
	}

	resolved, err := Config{PopupControlID: "Popup", OnShow: onShow}.Resolve(resolver)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.PopupControlID != "ctl00_Popup" {
		t.Fatalf("popup id = %q, want ctl00_Popup", resolved.PopupControlID)
	}

	var doc struct {
		AnimationChildren []struct {
			AnimationTarget string
		}
	}
	if err := json.Unmarshal(resolved.OnShow.JSON(), &doc); err != nil {
		t.Fatalf("decode resolved animation: %v", err)
	}
	if len(doc.AnimationChildren) != 1 || doc.AnimationChildren[0].AnimationTarget != "ctl00_Panel1" {
		t.Fatalf("resolved animation = %s", resolved.OnShow.JSON())
	}
	if !strings.Contains(string(onShow.JSON()), `"Panel1"`) {
		t.Fatal("resolve must not mutate the source animation")
	}
}

func TestResolve_UnknownIDFails(t *testing.T) {
	resolver := func(string) (string, bool) { return "", false }
	_, err := Config{PopupControlID: "Missing"}.Resolve(resolver)
	if !errors.Is(err, ErrUnresolvedControlID) {
		t.Fatalf("Resolve() = %v, want %v", err, ErrUnresolvedControlID)
	}

	onHide, err := NewAnimation([]byte(`{"AnimationTarget":"Ghost"}`))
	if err != nil {
		t.Fatalf("new animation: %v", err)
	}
	partial := func(id string) (string, bool) { return "c_" + id, id == "Popup" }
	_, err = Config{PopupControlID: "Popup", OnHide: onHide}.Resolve(partial)
	if !errors.Is(err, ErrUnresolvedControlID) {
		t.Fatalf("Resolve() animation = %v, want %v", err, ErrUnresolvedControlID)
	}
}

func TestResolve_NilResolverIsIdentity(t *testing.T) {
	cfg := Config{PopupControlID: "panel", OffsetY: 2}
	resolved, err := cfg.Resolve(nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != cfg {
		t.Fatalf("resolved = %+v, want %+v", resolved, cfg)
	}
}

func TestNewAnimation_RejectsNonObject(t *testing.T) {
	if _, err := NewAnimation([]byte(`[1,2]`)); !errors.Is(err, ErrInvalidAnimation) {
		t.Fatalf("NewAnimation() = %v, want %v", err, ErrInvalidAnimation)
	}
	if _, err := NewAnimation([]byte(`{`)); !errors.Is(err, ErrInvalidAnimation) {
		t.Fatalf("NewAnimation() = %v, want %v", err, ErrInvalidAnimation)
	}
	if _, err := NewAnimation([]byte(` null `)); !errors.Is(err, ErrInvalidAnimation) {
		t.Fatalf("NewAnimation(null) = %v, want %v", err, ErrInvalidAnimation)
	}
	var anim Animation
	if err := anim.UnmarshalJSON([]byte(`null`)); !errors.Is(err, ErrInvalidAnimation) {
		t.Fatalf("UnmarshalJSON(null) = %v, want %v", err, ErrInvalidAnimation)
	}
}

func TestResolvedDescriptor_ResolvesTargetLikePopup(t *testing.T) {
	resolve := func(id string) (string, bool) {
		clientID, ok := map[string]string{"Avatar": "ctl00_Avatar", "Panel": "ctl00_Panel"}[id]
		return clientID, ok
	}
	cfg := Config{PopupControlID: "Panel"}

	desc, err := cfg.ResolvedDescriptor("Avatar", resolve)
	if err != nil {
		t.Fatalf("ResolvedDescriptor: %v", err)
	}
	if desc.TargetID != "ctl00_Avatar" {
		t.Fatalf("target = %q, want %q", desc.TargetID, "ctl00_Avatar")
	}
	if got := desc.Properties["popupElement"]; got != "ctl00_Panel" {
		t.Fatalf("popupElement = %v, want ctl00_Panel", got)
	}

	if _, err := cfg.ResolvedDescriptor("Missing", resolve); !errors.Is(err, ErrUnresolvedControlID) {
		t.Fatalf("unknown target err = %v, want %v", err, ErrUnresolvedControlID)
	}
	if _, err := cfg.ResolvedDescriptor(" ", resolve); !errors.Is(err, ErrTargetIDRequired) {
		t.Fatalf("blank target err = %v, want %v", err, ErrTargetIDRequired)
	}

	desc, err = cfg.ResolvedDescriptor("Missing", nil)
	if err != nil {
		t.Fatalf("ResolvedDescriptor without resolver: %v", err)
	}
	if desc.TargetID != "Missing" {
		t.Fatalf("target = %q, want Missing", desc.TargetID)
	}
}

func TestParsePosition(t *testing.T) {
	tests := map[string]Position{
		"":       PositionCenter,
		"center": PositionCenter,
		"Left":   PositionLeft,
		"RIGHT":  PositionRight,
		" top ":  PositionTop,
		"bottom": PositionBottom,
	}
	for raw, want := range tests {
		got, err := ParsePosition(raw)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParsePosition(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParsePosition("diagonal"); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("ParsePosition() = %v, want %v", err, ErrUnknownPosition)
	}
}
