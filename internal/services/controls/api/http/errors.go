package httpapi

import (
	"errors"

	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	apperrors "github.com/louisbranch/controlkit/internal/platform/errors"
	"github.com/louisbranch/controlkit/internal/services/controls/hovermenu"
	"github.com/louisbranch/controlkit/internal/services/controls/storage"
)

// domainError maps package sentinels onto coded errors. Unrecognized errors
// pass through and surface as internal failures.
func domainError(err error) error {
	if err == nil {
		return nil
	}
	var coded *apperrors.Error
	if errors.As(err, &coded) {
		return err
	}
	code := apperrors.CodeUnknown
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = apperrors.CodeNotFound
	case errors.Is(err, storage.ErrProfileIDRequired):
		code = apperrors.CodeProfileIDEmpty
	case errors.Is(err, storage.ErrSizeOutOfRange):
		code = apperrors.CodeAvatarSizeInvalid
	case errors.Is(err, gravatar.ErrInvalidInput):
		code = apperrors.CodeAvatarEmailInvalid
	case errors.Is(err, gravatar.ErrUnknownDefaultImageBehavior):
		code = apperrors.CodeAvatarBehaviorInvalid
	case errors.Is(err, gravatar.ErrUnknownRating):
		code = apperrors.CodeAvatarRatingInvalid
	case errors.Is(err, hovermenu.ErrTargetIDRequired):
		code = apperrors.CodeHoverMenuTargetEmpty
	case errors.Is(err, hovermenu.ErrPopupControlIDRequired),
		errors.Is(err, hovermenu.ErrNegativeDelay),
		errors.Is(err, hovermenu.ErrUnknownPosition),
		errors.Is(err, hovermenu.ErrInvalidAnimation),
		errors.Is(err, hovermenu.ErrUnresolvedControlID),
		errors.Is(err, hovermenu.ErrInvalidBehaviorType):
		code = apperrors.CodeHoverMenuConfigInvalid
	default:
		return err
	}
	return apperrors.Wrap(code, err.Error(), err)
}

// profileError is domainError with the profile id attached to not-found
// errors.
func profileError(err error, profileID string) error {
	mapped := domainError(err)
	if apperrors.GetCode(mapped) != apperrors.CodeNotFound {
		return mapped
	}
	notFound := apperrors.WithMetadata(apperrors.CodeNotFound, mapped.Error(), map[string]string{"profile_id": profileID})
	notFound.Cause = err
	return notFound
}
