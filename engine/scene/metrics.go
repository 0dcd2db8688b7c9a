package scene

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// posePassTotal counts completed Update calls per scene
	posePassTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oxy_rig_pose_pass_total",
		Help: "Total pose passes by scene",
	}, []string{"scene"})

	// skeletonPassDuration tracks the time to pose one skeleton
	skeletonPassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oxy_rig_skeleton_pass_duration_seconds",
		Help:    "Time to advance, pose and compute world transforms for one skeleton",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
	}, []string{"scene"})

	// activeSkeletons tracks the number of skeletons registered per scene
	activeSkeletons = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "oxy_rig_active_skeletons",
		Help: "Skeletons registered by scene",
	}, []string{"scene"})
)
