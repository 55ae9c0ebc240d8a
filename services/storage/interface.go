package storage

import (
	"context"
	"errors"
	"time"
)

// ErrProofNotFound is returned when the referenced object does not exist.
var ErrProofNotFound = errors.New("proof object not found")

// ProofStorage resolves stored proof-of-payment references to short-lived links.
type ProofStorage interface {
	// SignedURL returns a link to ref valid for expires. ref is an object path or public id.
	SignedURL(ctx context.Context, ref string, expires time.Duration) (string, error)
}

// NoProofStorage is used when no backend is configured; only absolute URLs can be served.
type NoProofStorage struct{}

func (NoProofStorage) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("no proof storage configured")
}
