package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// loaderBackend defines the generic interface for loading rigs from files or streams.
// Concrete implementations (e.g., yamlLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load performs a full rig import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *skeleton.SkeletonData: the imported rig
	//   - error: error if loading fails
	Load(path string) (*skeleton.SkeletonData, error)

	// LoadReader imports a rig from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing the document
	//
	// Returns:
	//   - *skeleton.SkeletonData: the imported rig
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*skeleton.SkeletonData, error)
}
