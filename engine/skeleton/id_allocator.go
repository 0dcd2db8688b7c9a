package skeleton

import "sync/atomic"

// IDAllocator hands out vertex attachment IDs. A loader creates one allocator per skeleton data and
// passes it to every vertex attachment constructor; copies draw their new IDs from the same allocator.
// It is safe for concurrent use.
type IDAllocator struct {
	next atomic.Int64
}

// NewIDAllocator creates an allocator whose first ID is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() int {
	return int(a.next.Add(1))
}
