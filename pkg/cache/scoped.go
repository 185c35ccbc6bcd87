package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep several deployments apart when they share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey implements Keyer.
func (k *ScopedKeyer) DatasetKey(url string) string {
	return k.prefix + k.inner.DatasetKey(url)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
