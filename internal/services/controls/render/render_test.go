package render

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	"github.com/louisbranch/controlkit/internal/services/controls/hovermenu"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestAvatarImageRendersSizedImage(t *testing.T) {
	got := renderString(t, AvatarImage(AvatarImageProps{
		Builder: gravatar.New(""),
		Request: gravatar.Request{Email: "MyEmailAddress@example.com", Size: gravatar.SizePtr(48), Rating: gravatar.RatingPG},
		Alt:     "Avatar",
		Class:   "avatar",
		ID:      "user_avatar",
	}))
	want := `<img src="http://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=48&amp;r=pg" width="48" height="48" alt="Avatar" class="avatar" id="user_avatar">`
	if got != want {
		t.Fatalf("AvatarImage() = %q, want %q", got, want)
	}
}

func TestAvatarImageDefaultsSizeAndOmitsEmptyAttributes(t *testing.T) {
	got := renderString(t, AvatarImage(AvatarImageProps{Request: gravatar.Request{Email: "a@example.com"}}))
	if !strings.Contains(got, `width="80" height="80"`) {
		t.Fatalf("expected default size, got %q", got)
	}
	if strings.Contains(got, "class=") || strings.Contains(got, "id=") {
		t.Fatalf("expected class and id omitted, got %q", got)
	}
}

func TestAvatarImageEscapesAttributes(t *testing.T) {
	got := renderString(t, AvatarImage(AvatarImageProps{
		Request: gravatar.Request{Email: "a@example.com"},
		Alt:     `"><script>alert(1)</script>`,
	}))
	if strings.Contains(got, "<script>") {
		t.Fatalf("alt must be escaped, got %q", got)
	}
}

func TestAvatarImageRejectsUnsafeBase(t *testing.T) {
	got := renderString(t, AvatarImage(AvatarImageProps{
		Builder: gravatar.New("javascript:alert(1)//"),
		Request: gravatar.Request{Email: "a@example.com"},
	}))
	if strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe src must be sanitized, got %q", got)
	}
}

func TestHoverMenuScriptWrapsInitScript(t *testing.T) {
	desc, err := hovermenu.Config{PopupControlID: "panel"}.Descriptor("avatar")
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	got := renderString(t, HoverMenuScript(desc))
	if !strings.HasPrefix(got, `<script type="text/javascript">`) || !strings.HasSuffix(got, "</script>") {
		t.Fatalf("HoverMenuScript() = %q", got)
	}
	if !strings.Contains(got, `$get("avatar")`) {
		t.Fatalf("expected target lookup, got %q", got)
	}
}

func TestHoverMenuScriptPropagatesError(t *testing.T) {
	var b strings.Builder
	err := HoverMenuScript(hovermenu.Descriptor{Type: "x;y", TargetID: "t"}).Render(context.Background(), &b)
	if !errors.Is(err, hovermenu.ErrInvalidBehaviorType) {
		t.Fatalf("render error = %v, want %v", err, hovermenu.ErrInvalidBehaviorType)
	}
}

func TestProfileCardWiresPopupToAvatar(t *testing.T) {
	got := renderString(t, ProfileCard(ProfileCardProps{
		Avatar: AvatarImageProps{Request: gravatar.Request{Email: "a@example.com"}, ID: "alice"},
		Popup: templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<p>Alice</p>")
			return err
		}),
		HoverMenu: hovermenu.Config{PopupPosition: hovermenu.PositionRight},
	}))
	for _, want := range []string{
		`<div class="avatar-card">`,
		`id="alice"`,
		`<div id="alice_popup" class="avatar-card-popup" style="display:none"><p>Alice</p></div>`,
		`"popupElement":"alice_popup"`,
		`"popupPosition":"Right"`,
		`$get("alice")`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("ProfileCard() missing %q in %q", want, got)
		}
	}
}

func TestProfileCardRequiresAvatarID(t *testing.T) {
	var b strings.Builder
	err := ProfileCard(ProfileCardProps{}).Render(context.Background(), &b)
	if !errors.Is(err, hovermenu.ErrTargetIDRequired) {
		t.Fatalf("render error = %v, want %v", err, hovermenu.ErrTargetIDRequired)
	}
}
