package gravatar

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUnknownDefaultImageBehavior reports an unrecognized default-image token.
	ErrUnknownDefaultImageBehavior = errors.New("default image behavior is unknown")
	// ErrUnknownRating reports an unrecognized rating token.
	ErrUnknownRating = errors.New("rating is unknown")
)

// DefaultImageBehavior selects the image the service renders when no avatar
// is associated with the email hash.
type DefaultImageBehavior int

const (
	// DefaultImageDefault leaves the fallback image to the service.
	DefaultImageDefault DefaultImageBehavior = iota
	Identicon
	MonsterID
	MysteryMan
	Retro
	Wavatar

	behaviorCount
)

type behaviorEntry struct {
	name  string
	token string
}

// behaviorTable lists every behavior with its enum name and query token.
// MysteryMan is the only entry whose token differs from its lowercased name.
var behaviorTable = [behaviorCount]behaviorEntry{
	DefaultImageDefault: {name: "Default", token: ""},
	Identicon:           {name: "Identicon", token: "identicon"},
	MonsterID:           {name: "MonsterId", token: "monsterid"},
	MysteryMan:          {name: "MysteryMan", token: "mm"},
	Retro:               {name: "Retro", token: "retro"},
	Wavatar:             {name: "Wavatar", token: "wavatar"},
}

// Token returns the `d` query value, or "" for the default sentinel and
// out-of-range values.
func (b DefaultImageBehavior) Token() string {
	if b < 0 || int(b) >= len(behaviorTable) {
		return ""
	}
	return behaviorTable[b].token
}

func (b DefaultImageBehavior) String() string {
	if b < 0 || int(b) >= len(behaviorTable) {
		return "DefaultImageBehavior(" + strconv.Itoa(int(b)) + ")"
	}
	return behaviorTable[b].name
}

// ParseDefaultImageBehavior accepts either a query token ("mm") or an enum
// name ("MysteryMan"), case-insensitively. Blank input is the default sentinel.
func ParseDefaultImageBehavior(raw string) (DefaultImageBehavior, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultImageDefault, nil
	}
	for idx, entry := range behaviorTable {
		if strings.EqualFold(value, entry.name) || (entry.token != "" && strings.EqualFold(value, entry.token)) {
			return DefaultImageBehavior(idx), nil
		}
	}
	return DefaultImageDefault, ErrUnknownDefaultImageBehavior
}

// Rating is the maximum content rating the service may return.
type Rating int

const (
	// RatingDefault leaves the rating to the service (G).
	RatingDefault Rating = iota
	RatingG
	RatingPG
	RatingR
	RatingX

	ratingCount
)

var ratingTable = [ratingCount]string{
	RatingDefault: "Default",
	RatingG:       "G",
	RatingPG:      "PG",
	RatingR:       "R",
	RatingX:       "X",
}

// Token returns the `r` query value, or "" for the default sentinel.
func (r Rating) Token() string {
	if r <= RatingDefault || int(r) >= len(ratingTable) {
		return ""
	}
	return strings.ToLower(ratingTable[r])
}

func (r Rating) String() string {
	if r < 0 || int(r) >= len(ratingTable) {
		return "Rating(" + strconv.Itoa(int(r)) + ")"
	}
	return ratingTable[r]
}

// ParseRating accepts "pg", "PG" or "Default". Blank input is the default sentinel.
func ParseRating(raw string) (Rating, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return RatingDefault, nil
	}
	for idx, name := range ratingTable {
		if strings.EqualFold(value, name) {
			return Rating(idx), nil
		}
	}
	return RatingDefault, ErrUnknownRating
}
