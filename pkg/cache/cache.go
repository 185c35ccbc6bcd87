// Package cache stores fetched datasets and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for several `salesmap serve` instances
//   - [NullCache]: caching disabled (--no-cache, tests)
//
// Keys are produced by a [Keyer] so every backend agrees on the layout of
// the key space.
package cache

import (
	"context"
	"time"
)

// Time-to-live values for each kind of entry.
const (
	// TTLDataset is how long a fetched dataset body stays fresh.
	TTLDataset = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays fresh. Artifacts are
	// keyed by the dataset hash so they never outlive the data they render.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	PaddingOuter float64 `json:"padding_outer"`
	Tooltip      bool    `json:"tooltip"`
	LabelsHash   string  `json:"labels_hash,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// DatasetKey keys a raw dataset body by its source URL.
	DatasetKey(url string) string
	// ArtifactKey keys a rendered artifact by dataset hash and options.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "dataset:<hash>" and "artifact:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements Keyer.
func (DefaultKeyer) DatasetKey(url string) string {
	return hashKey("dataset", url)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}
