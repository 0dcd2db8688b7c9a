package scene

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rig/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
)

// PoseCallback writes the local pose of one skeleton before its world transforms are computed. It is
// where an animation driver applies its timelines. Callbacks for different skeletons run concurrently
// on the scene's worker pool, so a callback may only touch the skeleton it is given.
type PoseCallback func(id uint64, sk skeleton.Skeleton, deltaTime float32)

// Scene manages a registry of skeleton instances and poses all of them once per Update.
// Instances usually share one SkeletonData; each keeps its own pose.
// Scenes can be hot-swapped via the Active flag, the engine only updates active scenes.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier. Metrics are reported under the new name from then on.
	SetName(name string)

	// Active returns whether this scene is currently active.
	Active() bool

	// SetActive sets whether this scene is active.
	SetActive(active bool)

	// Count returns the number of skeletons in the scene.
	//
	// Returns:
	//   - int: count of registered skeletons
	Count() int

	// Add registers a skeleton with the scene. Panics if sk is nil.
	//
	// Parameters:
	//   - sk: the skeleton instance to pose each Update
	//
	// Returns:
	//   - uint64: the assigned ID, never 0
	Add(sk skeleton.Skeleton) uint64

	// Get retrieves a skeleton by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the skeleton's ID
	//
	// Returns:
	//   - skeleton.Skeleton: the skeleton or nil
	Get(id uint64) skeleton.Skeleton

	// Remove removes a skeleton from the registry by ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the skeleton's ID
	Remove(id uint64)

	// Clear removes every skeleton from the scene.
	Clear()

	// Skeletons returns the registered skeletons in the order they were added.
	//
	// Returns:
	//   - []skeleton.Skeleton: a copy of the registry in insertion order
	Skeletons() []skeleton.Skeleton

	// SetPoseCallback replaces the callback that writes local poses. A nil callback leaves every
	// skeleton in whatever local pose it already has.
	//
	// Parameters:
	//   - callback: the pose callback
	SetPoseCallback(callback PoseCallback)

	// Update runs one pose pass. For every skeleton it advances the skeleton clock, runs the pose
	// callback and computes world transforms, spreading skeletons over the worker pool. Returns when
	// every skeleton is posed.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last pass in seconds
	Update(deltaTime float32)

	// LastPass reports the work done by the most recent Update.
	//
	// Returns:
	//   - int: the number of skeletons posed
	//   - int: the number of bones updated
	LastPass() (int, int)
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]skeleton.Skeleton
	order    []uint64
	nextID   uint64

	poseCallback PoseCallback
	profiler     *profiler.Profiler

	computeWorkers int
	computePool    worker.DynamicWorkerPool

	lastPoses, lastBones int
}

var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the scene's identifier, also used as the metrics label
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         false,
		registry:       make(map[uint64]skeleton.Skeleton),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	log.Printf("[Scene] %s: %d pose workers", s.name, s.computeWorkers)

	activeSkeletons.WithLabelValues(s.name).Set(float64(len(s.order)))
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.name {
		return
	}
	activeSkeletons.DeleteLabelValues(s.name)
	s.name = name
	activeSkeletons.WithLabelValues(s.name).Set(float64(len(s.order)))
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *scene) Add(sk skeleton.Skeleton) uint64 {
	if sk == nil {
		panic("scene: cannot add a nil skeleton")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(sk)
}

// add registers sk. The caller must hold the write lock or be constructing the scene.
func (s *scene) add(sk skeleton.Skeleton) uint64 {
	id := atomic.AddUint64(&s.nextID, 1) - 1
	s.registry[id] = sk
	s.order = append(s.order, id)
	activeSkeletons.WithLabelValues(s.name).Set(float64(len(s.order)))
	return id
}

func (s *scene) Get(id uint64) skeleton.Skeleton {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return
	}
	delete(s.registry, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	activeSkeletons.WithLabelValues(s.name).Set(float64(len(s.order)))
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
	s.order = s.order[:0]
	activeSkeletons.WithLabelValues(s.name).Set(0)
}

func (s *scene) Skeletons() []skeleton.Skeleton {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]skeleton.Skeleton, len(s.order))
	for i, id := range s.order {
		out[i] = s.registry[id]
	}
	return out
}

func (s *scene) SetPoseCallback(callback PoseCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poseCallback = callback
}

func (s *scene) Update(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	passDuration := skeletonPassDuration.WithLabelValues(s.name)
	callback := s.poseCallback

	// Workers are reused across passes. A WaitGroup provides the per-pass barrier since pool.Wait()
	// blocks until workers idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	bones := 0
	for taskID, id := range s.order {
		sk := s.registry[id]
		bones += len(sk.Bones())

		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				sk.Update(deltaTime)
				if callback != nil {
					callback(id, sk, deltaTime)
				}
				sk.UpdateWorldTransform()
				passDuration.Observe(time.Since(start).Seconds())
				return nil, nil
			},
		})
	}
	wg.Wait()

	s.lastPoses, s.lastBones = len(s.order), bones
	posePassTotal.WithLabelValues(s.name).Inc()
	if s.profiler != nil {
		s.profiler.Tick(s.lastPoses, s.lastBones)
	}
}

func (s *scene) LastPass() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPoses, s.lastBones
}

func (s *scene) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("Scene(%s, %d skeletons, active=%t)", s.name, len(s.order), s.active)
}
