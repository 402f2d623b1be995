package storage

import (
	"context"
	"errors"
)

// Verb is the storage operation a signed URL authorizes.
type Verb string

const (
	VerbPut    Verb = "PUT"
	VerbGet    Verb = "GET"
	VerbDelete Verb = "DELETE"
)

// ErrConfiguration means the signer cannot produce URLs at all (missing
// bucket/credentials or unreachable endpoint). It is fatal and propagated;
// callers do not retry.
var ErrConfiguration = errors.New("storage signer is not configured")

// Signer hands out time-limited, verb-scoped URLs for objects it never
// transfers itself. Implementations sign; clients move the bytes.
type Signer interface {
	// SignURL returns a presigned URL for verb on path. contentType is only
	// meaningful for VerbPut and binds the upload to that MIME type.
	SignURL(ctx context.Context, path string, verb Verb, contentType string) (string, error)

	// PublicURL derives the stable, unsigned URL for a stored object.
	PublicURL(path string) string

	// DeleteObject removes the object at path. Callers treat failures
	// (including an already-missing object) as best-effort cleanup.
	DeleteObject(ctx context.Context, path string) error
}

// ParseVerb maps a request parameter onto a Verb.
func ParseVerb(s string) (Verb, bool) {
	switch Verb(s) {
	case VerbPut, VerbGet, VerbDelete:
		return Verb(s), true
	}
	return "", false
}
