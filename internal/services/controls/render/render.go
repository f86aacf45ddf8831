// Package render provides templ components for avatar images and hover menus.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	"github.com/louisbranch/controlkit/internal/services/controls/hovermenu"
)

// AvatarImageProps configures one avatar <img>.
type AvatarImageProps struct {
	Builder gravatar.Builder
	Request gravatar.Request
	Alt     string
	Class   string
	ID      string
}

// AvatarImage renders an <img> pointing at the avatar URL, sized to the
// effective request size.
func AvatarImage(props AvatarImageProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeAvatarImage(w, props)
	})
}

// HoverMenuScript renders the client init script for desc.
func HoverMenuScript(desc hovermenu.Descriptor) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		script, err := desc.Script()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `<script type="text/javascript">`+"\n"+script+"\n</script>")
		return err
	})
}

// ProfileCardProps configures a profile card: an avatar that reveals a popup
// panel on hover.
type ProfileCardProps struct {
	Avatar AvatarImageProps
	// PopupID is the element id of the popup panel. Defaults to Avatar.ID + "_popup".
	PopupID string
	// Popup renders inside the popup panel.
	Popup templ.Component
	// HoverMenu carries the hover behavior; PopupControlID is set from PopupID
	// when blank.
	HoverMenu hovermenu.Config
}

// ProfileCard renders the avatar, its hidden popup panel, and the hover-menu
// script wiring them together.
func ProfileCard(props ProfileCardProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		targetID := strings.TrimSpace(props.Avatar.ID)
		if targetID == "" {
			return fmt.Errorf("render profile card: %w", hovermenu.ErrTargetIDRequired)
		}
		popupID := strings.TrimSpace(props.PopupID)
		if popupID == "" {
			popupID = targetID + "_popup"
		}
		menu := props.HoverMenu
		if strings.TrimSpace(menu.PopupControlID) == "" {
			menu.PopupControlID = popupID
		}
		desc, err := menu.Descriptor(targetID)
		if err != nil {
			return fmt.Errorf("render profile card: %w", err)
		}

		if _, err := io.WriteString(w, `<div class="avatar-card">`); err != nil {
			return err
		}
		if err := writeAvatarImage(w, props.Avatar); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<div id="`+templ.EscapeString(popupID)+`" class="avatar-card-popup" style="display:none">`); err != nil {
			return err
		}
		if props.Popup != nil {
			if err := props.Popup.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
		if err := HoverMenuScript(desc).Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}

func writeAvatarImage(w io.Writer, props AvatarImageProps) error {
	src := props.Builder.URL(props.Request)
	size := strconv.Itoa(props.Request.EffectiveSize())

	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(templ.EscapeString(string(templ.URL(src))))
	b.WriteString(`" width="`)
	b.WriteString(size)
	b.WriteString(`" height="`)
	b.WriteString(size)
	b.WriteString(`" alt="`)
	b.WriteString(templ.EscapeString(props.Alt))
	b.WriteString(`"`)
	if class := strings.TrimSpace(props.Class); class != "" {
		b.WriteString(` class="`)
		b.WriteString(templ.EscapeString(class))
		b.WriteString(`"`)
	}
	if id := strings.TrimSpace(props.ID); id != "" {
		b.WriteString(` id="`)
		b.WriteString(templ.EscapeString(id))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	_, err := io.WriteString(w, b.String())
	return err
}
