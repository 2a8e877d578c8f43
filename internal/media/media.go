// Package media stores avatar images in S3-compatible object storage
// and owns the placeholder-avatar rules.
//
// A freshly registered user gets a generated placeholder URL instead of
// a real upload. Placeholders live on an external avatar service, not
// in our bucket; so when a user uploads a real image we must NOT try
// to delete the placeholder from storage, only replace the URL.
package media

import (
	"context"
	"io"
	"strings"
)

// placeholderBase is the prefix of every generated placeholder avatar.
// IsPlaceholder keys off this prefix.
const placeholderBase = "https://api.adorable.io/avatars/285/"

// PlaceholderAvatar returns the default avatar URL for a new user.
// Derived from the name so different users get different images.
func PlaceholderAvatar(name string) string {
	return placeholderBase + strings.ToLower(strings.TrimSpace(name)) + "@tutorhub.png"
}

// IsPlaceholder reports whether the URL points at a generated
// placeholder rather than an object in our bucket.
func IsPlaceholder(url string) bool {
	return url == "" || strings.HasPrefix(url, placeholderBase)
}

// Store is the object-storage surface the avatar service needs:
// put a new object, remove an old one, and map a previously issued
// public URL back to its object key.
type Store interface {
	// Put uploads the object and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	// KeyFromURL inverts Put's URL mapping. Returns false when the URL
	// doesn't point into this store (e.g. a placeholder).
	KeyFromURL(url string) (string, bool)
}
