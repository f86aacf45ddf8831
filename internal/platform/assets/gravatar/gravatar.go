// Package gravatar builds avatar image URLs following the Gravatar query
// convention.
//
// The image service keys avatars by the MD5 of the normalized email.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	// DefaultBaseURL is the avatar endpoint the hash is appended to.
	DefaultBaseURL = "http://www.gravatar.com/avatar/"
	// DefaultSize is the edge length in pixels used when no size is requested.
	DefaultSize = 80

	asciiReplacement = '?'
)

// ErrInvalidInput reports an email that cannot be encoded as ASCII.
var ErrInvalidInput = errors.New("email is not ascii encodable")

// Request describes one avatar image.
type Request struct {
	Email string
	// Size is the requested edge length in pixels; nil means DefaultSize.
	Size *int
	// DefaultImage is an explicit fallback token or absolute URL. It wins over
	// DefaultImageBehavior and is appended without escaping.
	DefaultImage         string
	DefaultImageBehavior DefaultImageBehavior
	Rating               Rating
}

// EffectiveSize returns the requested size or DefaultSize.
func (r Request) EffectiveSize() int {
	if r.Size == nil {
		return DefaultSize
	}
	return *r.Size
}

// SizePtr is a convenience for building requests with an explicit size.
func SizePtr(size int) *int {
	return &size
}

// Builder resolves avatar URLs against one base endpoint.
type Builder struct {
	baseURL string
}

// New returns a builder for baseURL, or DefaultBaseURL when blank.
func New(baseURL string) Builder {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Builder{baseURL: base}
}

// BaseURL returns the endpoint hashes are appended to.
func (b Builder) BaseURL() string {
	if b.baseURL == "" {
		return DefaultBaseURL
	}
	return b.baseURL
}

// URL builds the avatar URL for req. It never fails: absent options are
// defaulted and unknown enum values are ignored.
func (b Builder) URL(req Request) string {
	var url strings.Builder
	url.WriteString(b.BaseURL())
	url.WriteString(Hash(req.Email))

	url.WriteString("?s=")
	url.WriteString(strconv.Itoa(req.EffectiveSize()))

	if req.DefaultImage != "" {
		url.WriteString("&d=")
		url.WriteString(req.DefaultImage)
	} else if token := req.DefaultImageBehavior.Token(); token != "" {
		url.WriteString("&d=")
		url.WriteString(token)
	}

	if token := req.Rating.Token(); token != "" {
		url.WriteString("&r=")
		url.WriteString(token)
	}
	return url.String()
}

// BuildURL builds the avatar URL for req against DefaultBaseURL.
func BuildURL(req Request) string {
	return New("").URL(req)
}

// Hash returns the 32 lowercase hex character MD5 digest of the lowercased,
// ASCII-encoded email. Runes outside ASCII are encoded as '?'.
func Hash(email string) string {
	sum := md5.Sum(asciiBytes(email))
	return hex.EncodeToString(sum[:])
}

// ValidateEmail reports ErrInvalidInput when email holds runes that ASCII
// encoding would replace. URL and Hash do not call it.
func ValidateEmail(email string) error {
	if !utf8.ValidString(email) {
		return ErrInvalidInput
	}
	for _, r := range email {
		if r > unicode.MaxASCII {
			return ErrInvalidInput
		}
	}
	return nil
}

func asciiBytes(email string) []byte {
	// Rune-for-rune mapping; special casing would change the length.
	normalize := transform.Chain(
		runes.Map(unicode.ToLower),
		runes.Map(toASCII),
	)
	out, _, _ := transform.String(normalize, email)
	return []byte(out)
}

func toASCII(r rune) rune {
	if r > unicode.MaxASCII {
		return asciiReplacement
	}
	return r
}
