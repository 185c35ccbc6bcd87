package dataset

import (
	"context"
	"sync"
)

// State is the lifecycle of a [Loader].
type State int

const (
	// Idle means no load has been attempted yet.
	Idle State = iota
	// Loading means a load is in flight.
	Loading
	// Loaded means the dataset is available.
	Loaded
	// Failed means the load failed; the Loader will not retry.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Dataset is a loaded document together with where it came from.
type Dataset struct {
	Root   *Node
	Raw    []byte // Body exactly as read; hashed for artifact cache keys
	Source string // URL or file path
	Cached bool   // Body came from the cache rather than the network
}

// Source retrieves raw document bytes.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Read returns the document body and whether it came from a cache.
	Read(ctx context.Context) ([]byte, bool, error)
}

// URLSource reads the document over HTTP through a Fetcher.
type URLSource struct {
	URL     string
	Fetcher *Fetcher
	Refresh bool // Bypass the body cache
}

func (s URLSource) Name() string { return s.URL }

func (s URLSource) Read(ctx context.Context) ([]byte, bool, error) {
	return s.Fetcher.Fetch(ctx, s.URL, s.Refresh)
}

// FileSource reads the document from a local path.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Read(context.Context) ([]byte, bool, error) {
	data, err := readFile(string(s))
	return data, false, err
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context) ([]byte, error)

func (SourceFunc) Name() string { return "func" }

func (f SourceFunc) Read(ctx context.Context) ([]byte, bool, error) {
	data, err := f(ctx)
	return data, false, err
}

// Loader fetches and parses a dataset at most once.
//
// The first call to Load moves the Loader from Idle to Loading and performs
// the read. Concurrent callers block until that read settles and share its
// outcome. A successful read leaves the Loader Loaded and every later call
// returns the same *Dataset. A failed read leaves it Failed and every later
// call returns the same error; create a new Loader to try again.
//
// A read that ends with the caller's context done puts the Loader
// back to Idle, since nothing was learned about the source.
type Loader struct {
	src Source

	mu    sync.Mutex
	state State
	done  chan struct{}
	data  *Dataset
	err   error
}

// NewLoader returns an Idle loader for src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// State reports the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Source returns the loader's source.
func (l *Loader) Source() Source { return l.src }

// Load returns the dataset, reading it on the first call only.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	for {
		l.mu.Lock()
		switch l.state {
		case Loaded:
			d := l.data
			l.mu.Unlock()
			return d, nil
		case Failed:
			err := l.err
			l.mu.Unlock()
			return nil, err
		case Loading:
			done := l.done
			l.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		l.state = Loading
		l.done = make(chan struct{})
		l.mu.Unlock()

		d, err := l.read(ctx)

		l.mu.Lock()
		switch {
		case err == nil:
			l.state, l.data = Loaded, d
		case ctx.Err() != nil:
			l.state = Idle
		default:
			l.state, l.err = Failed, err
		}
		close(l.done)
		l.mu.Unlock()
		return d, err
	}
}

func (l *Loader) read(ctx context.Context) (*Dataset, error) {
	raw, cached, err := l.src.Read(ctx)
	if err != nil {
		return nil, err
	}
	root, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Dataset{Root: root, Raw: raw, Source: l.src.Name(), Cached: cached}, nil
}
