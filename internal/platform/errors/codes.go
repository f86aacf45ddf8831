// Package errors provides coded errors shared by transport layers.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Avatar errors
	CodeAvatarEmailInvalid     Code = "AVATAR_EMAIL_INVALID"
	CodeAvatarSizeInvalid      Code = "AVATAR_SIZE_INVALID"
	CodeAvatarBehaviorInvalid  Code = "AVATAR_DEFAULT_IMAGE_BEHAVIOR_INVALID"
	CodeAvatarRatingInvalid    Code = "AVATAR_RATING_INVALID"
	CodeProfileIDEmpty         Code = "PROFILE_ID_EMPTY"
	CodeProfilePageSizeInvalid Code = "PROFILE_PAGE_SIZE_INVALID"

	// Hover menu errors
	CodeHoverMenuConfigInvalid Code = "HOVER_MENU_CONFIG_INVALID"
	CodeHoverMenuTargetEmpty   Code = "HOVER_MENU_TARGET_EMPTY"

	// Request errors
	CodeRequestBodyInvalid Code = "REQUEST_BODY_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeAvatarEmailInvalid,
		CodeAvatarSizeInvalid,
		CodeAvatarBehaviorInvalid,
		CodeAvatarRatingInvalid,
		CodeProfileIDEmpty,
		CodeProfilePageSizeInvalid,
		CodeHoverMenuConfigInvalid,
		CodeHoverMenuTargetEmpty,
		CodeRequestBodyInvalid:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
