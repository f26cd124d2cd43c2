package domain

import (
	"context"
	"strings"
)

// AssetNamespace is the fixed object-store prefix for event images. Keys for
// deletion are reconstructed from stored URLs under this prefix; changing it
// silently breaks cleanup of previously uploaded assets.
const AssetNamespace = "event-hub/events/"

// AssetStore is an opaque external object store for event images. Delete is
// best-effort: callers dispatch it without awaiting and log failures instead
// of propagating them.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

// DeriveAssetKey reconstructs the object-store key for an asset URL: the
// URL's last path segment minus its extension, prefixed with AssetNamespace.
// Returns "" when no key can be derived. This is the single place the
// URL-to-key shape is known; see the tests before changing it.
func DeriveAssetKey(url string) string {
	if url == "" {
		return ""
	}
	// Drop query string and fragment, if any.
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	segment := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		segment = url[i+1:]
	}
	if i := strings.LastIndex(segment, "."); i > 0 {
		segment = segment[:i]
	}
	if segment == "" {
		return ""
	}
	return AssetNamespace + segment
}
