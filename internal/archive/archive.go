// Package archive stores sweep reports outside the database so failed
// deliveries can be inspected and resent after the dispatch log is pruned.
//
// Implementations:
//   - LocalArchive: files under a base directory (development)
//   - R2Archive: Cloudflare R2 through the S3 API (production)
//   - Nop: discards everything (archiving disabled)
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Archive is a write-mostly object store for JSON documents.
type Archive interface {
	// Put stores data at key, replacing anything already there.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the data stored at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for filesystem archives.
type LocalConfig struct {
	BasePath string // Root directory (e.g., "./archive")
}

// R2Config holds configuration for Cloudflare R2 archives.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string // Defaults to "auto"
}

// Provider names accepted in configuration.
const (
	ProviderNone  = "none"
	ProviderLocal = "local"
	ProviderR2    = "r2"
)

// =============================================================================
// Key helpers
// =============================================================================

// SweepKey returns the object key for a sweep report started at t:
// sweeps/YYYY/MM/DD/<unix-nanos>.json in UTC.
func SweepKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("sweeps/%04d/%02d/%02d/%d.json", t.Year(), int(t.Month()), t.Day(), t.UnixNano())
}

func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}

// =============================================================================
// Nop
// =============================================================================

// Nop discards writes and never finds anything.
type Nop struct{}

func (Nop) Put(ctx context.Context, key string, data []byte) error { return nil }

func (Nop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, &ArchiveError{Op: "Get", Key: key, Err: ErrNotFound}
}

var _ Archive = Nop{}
