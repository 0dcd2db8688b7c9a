package loader

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxDocumentSize is an option builder that limits the size of accepted rig documents.
// Values <= 0 keep DefaultMaxDocumentSize.
//
// Parameters:
//   - n: the maximum document size in bytes
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size limit to a loader
func WithMaxDocumentSize(n int64) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.maxDocumentSize = n
		}
	}
}

// WithRig is an option builder that pre-populates the rig cache.
//
// Parameters:
//   - key: the cache key for the rig
//   - data: the rig to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the rig option to a loader
func WithRig(key string, data *skeleton.SkeletonData) LoaderBuilderOption {
	return func(l *loader) {
		l.rigCache[key] = data
	}
}
