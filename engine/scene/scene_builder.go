package scene

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithSkeletons adds initial skeletons to the scene. Nil entries are skipped.
// IDs are assigned in argument order starting at 1.
//
// Parameters:
//   - skeletons: the skeletons to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkeletons(skeletons ...skeleton.Skeleton) SceneBuilderOption {
	return func(s *scene) {
		for _, sk := range skeletons {
			if sk != nil {
				s.add(sk)
			}
		}
	}
}

// WithComputeWorkers sets the number of worker goroutines used by Update.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithPoseCallback sets the callback that writes local poses, see Scene.SetPoseCallback.
//
// Parameters:
//   - callback: the pose callback
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPoseCallback(callback PoseCallback) SceneBuilderOption {
	return func(s *scene) {
		s.poseCallback = callback
	}
}

// WithProfiler makes the scene tick p after every Update with the skeletons and bones it posed.
//
// Parameters:
//   - p: the profiler to feed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.profiler = p
	}
}
