package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// SkeletonBuilderOption is a functional option for configuring a Skeleton.
// Use the With* functions to create options.
type SkeletonBuilderOption func(s *skeleton)

// WithPosition sets the skeleton's world offset.
//
// Parameters:
//   - x: the X offset
//   - y: the Y offset
//
// Returns:
//   - SkeletonBuilderOption: option function to apply
func WithPosition(x, y float32) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.x, s.y = x, y
	}
}

// WithScale sets the skeleton's scale. Negative values flip the skeleton.
//
// Parameters:
//   - scaleX: the X scale
//   - scaleY: the Y scale
//
// Returns:
//   - SkeletonBuilderOption: option function to apply
func WithScale(scaleX, scaleY float32) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.scaleX, s.scaleY = scaleX, scaleY
	}
}

// WithSkin selects the named skin once the setup pose is applied.
// NewSkeleton fails with ErrSkinNotFound if the data has no such skin.
//
// Parameters:
//   - name: the skin name
//
// Returns:
//   - SkeletonBuilderOption: option function to apply
func WithSkin(name string) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.skinName = name
	}
}

// WithColor sets the skeleton-wide tint. Defaults to white.
//
// Parameters:
//   - c: the tint
//
// Returns:
//   - SkeletonBuilderOption: option function to apply
func WithColor(c common.Color) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.color = c
	}
}

// WithTime sets the skeleton clock.
//
// Parameters:
//   - t: the clock value in seconds
//
// Returns:
//   - SkeletonBuilderOption: option function to apply
func WithTime(t float32) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.time = t
	}
}
