// Package storage defines persistence contracts for saved avatar profiles.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
)

// MaxSize is the largest avatar edge length a profile may request.
const MaxSize = 2048

var (
	// ErrNotFound indicates a requested profile record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrProfileIDRequired indicates a profile without an id.
	ErrProfileIDRequired = errors.New("profile id is required")
	// ErrSizeOutOfRange indicates a size outside 1..MaxSize.
	ErrSizeOutOfRange = fmt.Errorf("size must be between 1 and %d", MaxSize)
)

// AvatarProfile stores the avatar options saved under one profile id.
type AvatarProfile struct {
	ProfileID            string
	Email                string
	Size                 *int
	DefaultImage         string
	DefaultImageBehavior gravatar.DefaultImageBehavior
	Rating               gravatar.Rating
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Normalize trims free-text fields.
func (p AvatarProfile) Normalize() AvatarProfile {
	p.ProfileID = strings.TrimSpace(p.ProfileID)
	p.Email = strings.TrimSpace(p.Email)
	p.DefaultImage = strings.TrimSpace(p.DefaultImage)
	return p
}

// Validate checks the profile id, email, size, and enum ranges.
func (p AvatarProfile) Validate() error {
	if strings.TrimSpace(p.ProfileID) == "" {
		return ErrProfileIDRequired
	}
	if err := gravatar.ValidateEmail(p.Email); err != nil {
		return err
	}
	if p.Size != nil && (*p.Size < 1 || *p.Size > MaxSize) {
		return ErrSizeOutOfRange
	}
	if p.DefaultImageBehavior.Token() == "" && p.DefaultImageBehavior != gravatar.DefaultImageDefault {
		return gravatar.ErrUnknownDefaultImageBehavior
	}
	if p.Rating.Token() == "" && p.Rating != gravatar.RatingDefault {
		return gravatar.ErrUnknownRating
	}
	return nil
}

// Request converts the profile into an avatar URL request.
func (p AvatarProfile) Request() gravatar.Request {
	req := gravatar.Request{
		Email:                p.Email,
		DefaultImage:         p.DefaultImage,
		DefaultImageBehavior: p.DefaultImageBehavior,
		Rating:               p.Rating,
	}
	if p.Size != nil {
		req.Size = gravatar.SizePtr(*p.Size)
	}
	return req
}

// AvatarProfilePage stores one page of profile records.
type AvatarProfilePage struct {
	Profiles      []AvatarProfile
	NextPageToken string
}

// ProfileStore persists avatar profiles.
type ProfileStore interface {
	PutProfile(ctx context.Context, profile AvatarProfile) (AvatarProfile, error)
	GetProfile(ctx context.Context, profileID string) (AvatarProfile, error)
	DeleteProfile(ctx context.Context, profileID string) error
	ListProfiles(ctx context.Context, pageSize int, pageToken string) (AvatarProfilePage, error)
}
