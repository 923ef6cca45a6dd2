package storage

import (
	"context"
	"errors"

	verificationapp "github.com/creditcore/backend/internal/application/verification"
)

// NoopResponseArchive is a placeholder archiver for deployments without an
// object storage backend. Store succeeds without persisting anything.
type NoopResponseArchive struct{}

// NewNoopResponseArchive creates a new NoopResponseArchive
func NewNoopResponseArchive() *NoopResponseArchive {
	return &NoopResponseArchive{}
}

// Ensure NoopResponseArchive implements ResponseArchiver
var _ verificationapp.ResponseArchiver = (*NoopResponseArchive)(nil)

// Store validates the key and discards the data
func (a *NoopResponseArchive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("archive key is required")
	}
	return nil
}
