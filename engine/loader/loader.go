package loader

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// LoaderBackendType identifies the rig document format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML rig document backend.
	BackendTypeYAML LoaderBackendType = iota
)

// DefaultMaxDocumentSize is the largest rig document accepted unless WithMaxDocumentSize says otherwise.
const DefaultMaxDocumentSize int64 = 4 << 20

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	maxDocumentSize int64

	rigCache map[string]*skeleton.SkeletonData

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching rig descriptions.
// It abstracts the document format behind a backend and manages a cache of previously loaded rigs.
// The returned SkeletonData is shared; callers must treat it as read-only.
type Loader interface {
	// LoadFile imports a rig document and caches the result.
	// If the rig is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the rig document (.yaml or .yml)
	//
	// Returns:
	//   - *skeleton.SkeletonData: the loaded and validated rig
	//   - error: error if reading, decoding or validation fails
	LoadFile(path string) (*skeleton.SkeletonData, error)

	// LoadReader imports a rig from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded rig
	//   - r: the reader providing the document
	//
	// Returns:
	//   - *skeleton.SkeletonData: the loaded and validated rig
	//   - error: error if reading, decoding or validation fails
	LoadReader(name string, r io.Reader) (*skeleton.SkeletonData, error)

	// Get retrieves a cached rig by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *skeleton.SkeletonData: the cached rig or nil
	Get(name string) *skeleton.SkeletonData

	// Rigs returns a copy of the rig cache.
	//
	// Returns:
	//   - map[string]*skeleton.SkeletonData: all cached rigs keyed by name
	Rigs() map[string]*skeleton.SkeletonData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		maxDocumentSize: DefaultMaxDocumentSize,
		rigCache:        make(map[string]*skeleton.SkeletonData),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend(l.maxDocumentSize)
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}
	return l
}

// LoadFile reads one rig document with the YAML backend and default limits, without caching.
//
// Parameters:
//   - path: the file path to the rig document
//
// Returns:
//   - *skeleton.SkeletonData: the loaded and validated rig
//   - error: error if reading, decoding or validation fails
func LoadFile(path string) (*skeleton.SkeletonData, error) {
	return newYAMLLoaderBackend(DefaultMaxDocumentSize).Load(path)
}

// Load reads one rig document from r with the YAML backend and default limits.
//
// Parameters:
//   - r: the reader providing the document
//
// Returns:
//   - *skeleton.SkeletonData: the loaded and validated rig
//   - error: error if reading, decoding or validation fails
func Load(r io.Reader) (*skeleton.SkeletonData, error) {
	return newYAMLLoaderBackend(DefaultMaxDocumentSize).LoadReader(r)
}

func (l *loader) LoadFile(path string) (*skeleton.SkeletonData, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("loader: unsupported rig file extension %q", ext)
	}

	data, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, data), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*skeleton.SkeletonData, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	data, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, data), nil
}

// store caches data under name unless another load got there first, and returns the cached value.
func (l *loader) store(name string, data *skeleton.SkeletonData) *skeleton.SkeletonData {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.rigCache[name]; ok {
		return cached
	}
	l.rigCache[name] = data
	return data
}

func (l *loader) Get(name string) *skeleton.SkeletonData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rigCache[name]
}

func (l *loader) Rigs() map[string]*skeleton.SkeletonData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.rigCache)
}
