package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

// SkeletonBounds collects the world polygons of the bounding box attachments shown by a skeleton and
// answers hit tests against them. Polygons are x,y pairs.
type SkeletonBounds struct {
	// MinX, MinY, MaxX and MaxY bound every polygon after an Update with updateAabb set.
	MinX, MinY, MaxX, MaxY float32

	boxes    []*BoundingBoxAttachment
	polygons [][]float32
	pool     [][]float32
}

// NewSkeletonBounds creates an empty SkeletonBounds.
func NewSkeletonBounds() *SkeletonBounds {
	return &SkeletonBounds{}
}

// Update recomputes the polygons from the skeleton's current world transforms.
//
// Parameters:
//   - sk: the posed skeleton
//   - updateAabb: whether to recompute the axis-aligned bounds; if false they are reset to zero
func (b *SkeletonBounds) Update(sk Skeleton, updateAabb bool) {
	for _, p := range b.polygons {
		b.pool = append(b.pool, p[:0])
	}
	b.boxes = b.boxes[:0]
	b.polygons = b.polygons[:0]

	for _, slot := range sk.Slots() {
		if !slot.bone.active {
			continue
		}
		box, ok := slot.attachment.(*BoundingBoxAttachment)
		if !ok {
			continue
		}
		var polygon []float32
		if n := len(b.pool); n > 0 {
			polygon = b.pool[n-1]
			b.pool = b.pool[:n-1]
		}
		count := box.WorldVerticesLength()
		if cap(polygon) < count {
			polygon = make([]float32, count)
		}
		polygon = polygon[:count]
		box.ComputeWorldVertices(slot, 0, count, polygon, 0, 2)
		b.boxes = append(b.boxes, box)
		b.polygons = append(b.polygons, polygon)
	}

	if updateAabb {
		b.computeAabb()
	} else {
		b.MinX, b.MinY, b.MaxX, b.MaxY = 0, 0, 0, 0
	}
}

func (b *SkeletonBounds) computeAabb() {
	minX, minY := common.MaxFloat32, common.MaxFloat32
	maxX, maxY := -common.MaxFloat32, -common.MaxFloat32
	for _, polygon := range b.polygons {
		for i := 0; i+1 < len(polygon); i += 2 {
			x, y := polygon[i], polygon[i+1]
			minX, minY = math32.Min(minX, x), math32.Min(minY, y)
			maxX, maxY = math32.Max(maxX, x), math32.Max(maxY, y)
		}
	}
	if minX > maxX {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	b.MinX, b.MinY, b.MaxX, b.MaxY = minX, minY, maxX, maxY
}

// Width returns the width of the axis-aligned bounds.
func (b *SkeletonBounds) Width() float32 {
	return b.MaxX - b.MinX
}

// Height returns the height of the axis-aligned bounds.
func (b *SkeletonBounds) Height() float32 {
	return b.MaxY - b.MinY
}

// BoundingBoxes returns the attachments collected by the last Update.
func (b *SkeletonBounds) BoundingBoxes() []*BoundingBoxAttachment {
	return b.boxes
}

// Polygons returns the world polygons collected by the last Update, parallel to BoundingBoxes.
func (b *SkeletonBounds) Polygons() [][]float32 {
	return b.polygons
}

// Polygon returns the world polygon of box, or nil if box was not collected.
func (b *SkeletonBounds) Polygon(box *BoundingBoxAttachment) []float32 {
	for i, bb := range b.boxes {
		if bb == box {
			return b.polygons[i]
		}
	}
	return nil
}

// AabbContainsPoint reports whether the point is inside the axis-aligned bounds.
func (b *SkeletonBounds) AabbContainsPoint(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// AabbIntersectsSegment reports whether the segment may cross the axis-aligned bounds.
func (b *SkeletonBounds) AabbIntersectsSegment(x1, y1, x2, y2 float32) bool {
	minX, minY, maxX, maxY := b.MinX, b.MinY, b.MaxX, b.MaxY
	if (x1 <= minX && x2 <= minX) || (y1 <= minY && y2 <= minY) || (x1 >= maxX && x2 >= maxX) || (y1 >= maxY && y2 >= maxY) {
		return false
	}
	m := (y2 - y1) / (x2 - x1)
	y := m*(minX-x1) + y1
	if y > minY && y < maxY {
		return true
	}
	y = m*(maxX-x1) + y1
	if y > minY && y < maxY {
		return true
	}
	x := (minY-y1)/m + x1
	if x > minX && x < maxX {
		return true
	}
	x = (maxY-y1)/m + x1
	return x > minX && x < maxX
}

// AabbIntersectsSkeleton reports whether the axis-aligned bounds overlap other's.
func (b *SkeletonBounds) AabbIntersectsSkeleton(other *SkeletonBounds) bool {
	return b.MinX < other.MaxX && b.MaxX > other.MinX && b.MinY < other.MaxY && b.MaxY > other.MinY
}

// ContainsPoint returns the first bounding box whose polygon contains the point, or nil.
func (b *SkeletonBounds) ContainsPoint(x, y float32) *BoundingBoxAttachment {
	for i, polygon := range b.polygons {
		if PolygonContainsPoint(polygon, x, y) {
			return b.boxes[i]
		}
	}
	return nil
}

// IntersectsSegment returns the first bounding box whose polygon crosses the segment, or nil.
func (b *SkeletonBounds) IntersectsSegment(x1, y1, x2, y2 float32) *BoundingBoxAttachment {
	for i, polygon := range b.polygons {
		if PolygonIntersectsSegment(polygon, x1, y1, x2, y2) {
			return b.boxes[i]
		}
	}
	return nil
}

// PolygonContainsPoint reports whether the point is inside the polygon, using the even-odd rule.
func PolygonContainsPoint(polygon []float32, x, y float32) bool {
	n := len(polygon)
	if n < 6 {
		return false
	}
	inside := false
	prev := n - 2
	for i := 0; i < n; i += 2 {
		vy, py := polygon[i+1], polygon[prev+1]
		if (vy < y && py >= y) || (py < y && vy >= y) {
			vx := polygon[i]
			if vx+(y-vy)/(py-vy)*(polygon[prev]-vx) < x {
				inside = !inside
			}
		}
		prev = i
	}
	return inside
}

// PolygonIntersectsSegment reports whether any edge of the polygon crosses the segment.
func PolygonIntersectsSegment(polygon []float32, x1, y1, x2, y2 float32) bool {
	n := len(polygon)
	if n < 4 {
		return false
	}
	width12, height12 := x1-x2, y1-y2
	det1 := x1*y2 - y1*x2
	x3, y3 := polygon[n-2], polygon[n-1]
	for i := 0; i < n; i += 2 {
		x4, y4 := polygon[i], polygon[i+1]
		det2 := x3*y4 - y3*x4
		width34, height34 := x3-x4, y3-y4
		det3 := width12*height34 - height12*width34
		if det3 != 0 {
			x := (det1*width34 - width12*det2) / det3
			if ((x >= x3 && x <= x4) || (x >= x4 && x <= x3)) && ((x >= x1 && x <= x2) || (x >= x2 && x <= x1)) {
				y := (det1*height34 - height12*det2) / det3
				if ((y >= y3 && y <= y4) || (y >= y4 && y <= y3)) && ((y >= y1 && y <= y2) || (y >= y2 && y <= y1)) {
					return true
				}
			}
		}
		x3, y3 = x4, y4
	}
	return false
}
