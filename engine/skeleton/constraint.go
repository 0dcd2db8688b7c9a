package skeleton

// Updatable is an entry in a skeleton's update order: a bone whose world transform is recomputed,
// or a constraint that adjusts bones after their inputs are final.
type Updatable interface {
	// Update applies the entry to the current pose.
	Update()

	// IsActive reports whether the entry participates under the current skin.
	IsActive() bool
}

// constraintKind orders constraints that share the same Order value.
type constraintKind int

const (
	kindIk constraintKind = iota
	kindTransform
	kindPath
)

// orderedConstraint is a constraint paired with the keys the update order sorts it by.
type orderedConstraint struct {
	order int
	kind  constraintKind
	index int
	sort  func(s *skeleton)
}
