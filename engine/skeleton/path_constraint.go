package skeleton

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

const (
	pathNone   = -1
	pathBefore = -2
	pathAfter  = -3
	epsilon    = 0.00001
)

// PathConstraint lays its bones along the path attachment shown by the target slot, adjusting their
// world positions and, depending on the rotate mode, their rotations and X scales.
type PathConstraint struct {
	data *PathConstraintData

	Bones  []*Bone
	Target *Slot

	Position, Spacing, RotateMix, TranslateMix float32

	active bool

	spaces    []float32
	positions []float32
	world     []float32
	curves    []float32
	lengths   []float32
	segments  [10]float32
}

var _ Updatable = &PathConstraint{}

func newPathConstraint(data *PathConstraintData, sk *skeleton) *PathConstraint {
	c := &PathConstraint{
		data:   data,
		Bones:  make([]*Bone, len(data.Bones)),
		Target: sk.slots[data.Target.Index],
	}
	for i, b := range data.Bones {
		c.Bones[i] = sk.bones[b.Index]
	}
	c.SetToSetupPose()
	return c
}

// Data returns the constraint's setup-pose blueprint.
func (c *PathConstraint) Data() *PathConstraintData {
	return c.data
}

func (c *PathConstraint) IsActive() bool {
	return c.active
}

// SetToSetupPose restores position, spacing and mixes from the blueprint.
func (c *PathConstraint) SetToSetupPose() {
	d := c.data
	c.Position = d.Position
	c.Spacing = d.Spacing
	c.RotateMix = d.RotateMix
	c.TranslateMix = d.TranslateMix
}

// Update positions the bones along the path. It is a no-op unless the target slot shows a
// PathAttachment. Panics if Target is nil.
func (c *PathConstraint) Update() {
	if c.Target == nil {
		panic("skeleton: path constraint target slot is nil")
	}
	attachment, ok := c.Target.attachment.(*PathAttachment)
	if !ok {
		return
	}
	rotateMix, translateMix := c.RotateMix, c.TranslateMix
	translate, rotate := translateMix > 0, rotateMix > 0
	if !translate && !rotate {
		return
	}

	data := c.data
	percentSpacing := data.SpacingMode == SpacingPercent
	rotateMode := data.RotateMode
	tangents := rotateMode == RotateTangent
	scale := rotateMode == RotateChainScale
	bones := c.Bones
	boneCount := len(bones)
	spacesCount := boneCount + 1
	if tangents {
		spacesCount = boneCount
	}
	spaces := resize(&c.spaces, spacesCount)
	spaces[0] = 0
	var lengths []float32
	spacing := c.Spacing

	if scale || !percentSpacing {
		if scale {
			lengths = resize(&c.lengths, boneCount)
		}
		lengthSpacing := data.SpacingMode == SpacingLength
		for i, n := 0, spacesCount-1; i < n; {
			bone := bones[i]
			setupLength := bone.data.Length
			if setupLength < epsilon {
				if scale {
					lengths[i] = 0
				}
				i++
				spaces[i] = 0
				continue
			}
			x, y := setupLength*bone.A, setupLength*bone.C
			length := math32.Sqrt(x*x + y*y)
			if scale {
				lengths[i] = length
			}
			i++
			switch {
			case percentSpacing:
				spaces[i] = spacing
			case lengthSpacing:
				spaces[i] = (setupLength + spacing) * length / setupLength
			default:
				spaces[i] = spacing * length / setupLength
			}
		}
	} else {
		for i := 1; i < spacesCount; i++ {
			spaces[i] = spacing
		}
	}

	positions := c.computeWorldPositions(attachment, spacesCount, tangents, data.PositionMode == PositionPercent, percentSpacing)
	boneX, boneY := positions[0], positions[1]
	offsetRotation := data.OffsetRotation
	tip := false
	if offsetRotation == 0 {
		tip = rotateMode == RotateChain
	} else {
		p := c.Target.bone
		if p.A*p.D-p.B*p.C > 0 {
			offsetRotation *= common.DegRad
		} else {
			offsetRotation *= -common.DegRad
		}
	}

	for i, p := 0, 3; i < boneCount; i, p = i+1, p+3 {
		bone := bones[i]
		bone.WorldX += (boneX - bone.WorldX) * translateMix
		bone.WorldY += (boneY - bone.WorldY) * translateMix
		x, y := positions[p], positions[p+1]
		dx, dy := x-boneX, y-boneY
		if scale {
			if length := lengths[i]; length != 0 {
				s := (math32.Sqrt(dx*dx+dy*dy)/length-1)*rotateMix + 1
				bone.A *= s
				bone.C *= s
			}
		}
		boneX, boneY = x, y
		if rotate {
			a, b, cc, d := bone.A, bone.B, bone.C, bone.D
			var r float32
			switch {
			case tangents:
				r = positions[p-1]
			case spaces[i+1] == 0:
				r = positions[p+2]
			default:
				r = math32.Atan2(dy, dx)
			}
			r -= math32.Atan2(cc, a)
			if tip {
				cos, sin := math32.Cos(r), math32.Sin(r)
				length := bone.data.Length
				boneX += (length*(cos*a-sin*cc) - dx) * rotateMix
				boneY += (length*(sin*a+cos*cc) - dy) * rotateMix
			} else {
				r += offsetRotation
			}
			r = common.WrapRadians(r) * rotateMix
			cos, sin := math32.Cos(r), math32.Sin(r)
			bone.A = cos*a - sin*cc
			bone.B = cos*b - sin*d
			bone.C = sin*a + cos*cc
			bone.D = sin*b + cos*d
		}
		bone.UpdateAppliedTransform()
	}
}

// computeWorldPositions samples the path at each spacing step, returning x, y and tangent angle
// triples. Positions before the start or past the end of an open path extend along the end tangents.
func (c *PathConstraint) computeWorldPositions(path *PathAttachment, spacesCount int, tangents, percentPosition, percentSpacing bool) []float32 {
	target := c.Target
	position := c.Position
	spaces := c.spaces
	out := resize(&c.positions, spacesCount*3+2)
	closed := path.Closed
	verticesLength := path.WorldVerticesLength()
	curveCount := verticesLength / 6
	prevCurve := pathNone

	if !path.ConstantSpeed {
		lengths := path.Lengths
		if closed {
			curveCount--
		} else {
			curveCount -= 2
		}
		pathLength := lengths[curveCount]
		if percentPosition {
			position *= pathLength
		}
		if percentSpacing {
			for i := 1; i < spacesCount; i++ {
				spaces[i] *= pathLength
			}
		}
		world := resize(&c.world, 8)
		curve := 0
		for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
			space := spaces[i]
			position += space
			p := position

			if closed {
				p = math32.Mod(p, pathLength)
				if p < 0 {
					p += pathLength
				}
				curve = 0
			} else if p < 0 {
				if prevCurve != pathBefore {
					prevCurve = pathBefore
					path.ComputeWorldVertices(target, 2, 4, world, 0, 2)
				}
				addBeforePosition(p, world, 0, out, o)
				continue
			} else if p > pathLength {
				if prevCurve != pathAfter {
					prevCurve = pathAfter
					path.ComputeWorldVertices(target, verticesLength-6, 4, world, 0, 2)
				}
				addAfterPosition(p-pathLength, world, 0, out, o)
				continue
			}

			// Find the curve containing the position.
			for ; ; curve++ {
				length := lengths[curve]
				if p > length {
					continue
				}
				if curve == 0 {
					p /= length
				} else {
					prev := lengths[curve-1]
					p = (p - prev) / (length - prev)
				}
				break
			}
			if curve != prevCurve {
				prevCurve = curve
				if closed && curve == curveCount {
					path.ComputeWorldVertices(target, verticesLength-4, 4, world, 0, 2)
					path.ComputeWorldVertices(target, 0, 4, world, 4, 2)
				} else {
					path.ComputeWorldVertices(target, curve*6+2, 8, world, 0, 2)
				}
			}
			addCurvePosition(p, world[0], world[1], world[2], world[3], world[4], world[5], world[6], world[7], out, o,
				tangents || (i > 0 && space < epsilon))
		}
		return out
	}

	// Constant speed: sample the whole path and measure it.
	var world []float32
	if closed {
		verticesLength += 2
		world = resize(&c.world, verticesLength)
		path.ComputeWorldVertices(target, 2, verticesLength-4, world, 0, 2)
		path.ComputeWorldVertices(target, 0, 2, world, verticesLength-4, 2)
		world[verticesLength-2] = world[0]
		world[verticesLength-1] = world[1]
	} else {
		curveCount--
		verticesLength -= 4
		world = resize(&c.world, verticesLength)
		path.ComputeWorldVertices(target, 2, verticesLength, world, 0, 2)
	}

	curves := resize(&c.curves, curveCount)
	var pathLength float32
	x1, y1 := world[0], world[1]
	var cx1, cy1, cx2, cy2, x2, y2 float32
	var tmpx, tmpy, dddfx, dddfy, ddfx, ddfy, dfx, dfy float32
	for i, w := 0, 2; i < curveCount; i, w = i+1, w+6 {
		cx1, cy1 = world[w], world[w+1]
		cx2, cy2 = world[w+2], world[w+3]
		x2, y2 = world[w+4], world[w+5]
		tmpx = (x1 - cx1*2 + cx2) * 0.1875
		tmpy = (y1 - cy1*2 + cy2) * 0.1875
		dddfx = ((cx1-cx2)*3 - x1 + x2) * 0.09375
		dddfy = ((cy1-cy2)*3 - y1 + y2) * 0.09375
		ddfx = tmpx*2 + dddfx
		ddfy = tmpy*2 + dddfy
		dfx = (cx1-x1)*0.75 + tmpx + dddfx*0.16666667
		dfy = (cy1-y1)*0.75 + tmpy + dddfy*0.16666667
		pathLength += math32.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		pathLength += math32.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		pathLength += math32.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx + dddfx
		dfy += ddfy + dddfy
		pathLength += math32.Sqrt(dfx*dfx + dfy*dfy)
		curves[i] = pathLength
		x1, y1 = x2, y2
	}
	if percentPosition {
		position *= pathLength
	} else {
		position *= pathLength / path.Lengths[curveCount-1]
	}
	if percentSpacing {
		for i := 1; i < spacesCount; i++ {
			spaces[i] *= pathLength
		}
	}

	segments := &c.segments
	var curveLength float32
	curve, segment := 0, 0
	for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
		space := spaces[i]
		position += space
		p := position

		if closed {
			p = math32.Mod(p, pathLength)
			if p < 0 {
				p += pathLength
			}
			curve = 0
		} else if p < 0 {
			addBeforePosition(p, world, 0, out, o)
			continue
		} else if p > pathLength {
			addAfterPosition(p-pathLength, world, verticesLength-4, out, o)
			continue
		}

		// Find the curve containing the position.
		for ; ; curve++ {
			length := curves[curve]
			if p > length {
				continue
			}
			if curve == 0 {
				p /= length
			} else {
				prev := curves[curve-1]
				p = (p - prev) / (length - prev)
			}
			break
		}

		// Measure the curve's segments.
		if curve != prevCurve {
			prevCurve = curve
			ii := curve * 6
			x1, y1 = world[ii], world[ii+1]
			cx1, cy1 = world[ii+2], world[ii+3]
			cx2, cy2 = world[ii+4], world[ii+5]
			x2, y2 = world[ii+6], world[ii+7]
			tmpx = (x1 - cx1*2 + cx2) * 0.03
			tmpy = (y1 - cy1*2 + cy2) * 0.03
			dddfx = ((cx1-cx2)*3 - x1 + x2) * 0.006
			dddfy = ((cy1-cy2)*3 - y1 + y2) * 0.006
			ddfx = tmpx*2 + dddfx
			ddfy = tmpy*2 + dddfy
			dfx = (cx1-x1)*0.3 + tmpx + dddfx*0.16666667
			dfy = (cy1-y1)*0.3 + tmpy + dddfy*0.16666667
			curveLength = math32.Sqrt(dfx*dfx + dfy*dfy)
			segments[0] = curveLength
			for ii = 1; ii < 8; ii++ {
				dfx += ddfx
				dfy += ddfy
				ddfx += dddfx
				ddfy += dddfy
				curveLength += math32.Sqrt(dfx*dfx + dfy*dfy)
				segments[ii] = curveLength
			}
			dfx += ddfx
			dfy += ddfy
			curveLength += math32.Sqrt(dfx*dfx + dfy*dfy)
			segments[8] = curveLength
			dfx += ddfx + dddfx
			dfy += ddfy + dddfy
			curveLength += math32.Sqrt(dfx*dfx + dfy*dfy)
			segments[9] = curveLength
			segment = 0
		}

		// Weight by segment length.
		p *= curveLength
		for ; ; segment++ {
			length := segments[segment]
			if p > length {
				continue
			}
			if segment == 0 {
				p /= length
			} else {
				prev := segments[segment-1]
				p = float32(segment) + (p-prev)/(length-prev)
			}
			break
		}
		addCurvePosition(p*0.1, x1, y1, cx1, cy1, cx2, cy2, x2, y2, out, o, tangents || (i > 0 && space < epsilon))
	}
	return out
}

func addBeforePosition(p float32, temp []float32, i int, out []float32, o int) {
	x1, y1 := temp[i], temp[i+1]
	dx, dy := temp[i+2]-x1, temp[i+3]-y1
	r := math32.Atan2(dy, dx)
	out[o] = x1 + p*math32.Cos(r)
	out[o+1] = y1 + p*math32.Sin(r)
	out[o+2] = r
}

func addAfterPosition(p float32, temp []float32, i int, out []float32, o int) {
	x1, y1 := temp[i+2], temp[i+3]
	dx, dy := x1-temp[i], y1-temp[i+1]
	r := math32.Atan2(dy, dx)
	out[o] = x1 + p*math32.Cos(r)
	out[o+1] = y1 + p*math32.Sin(r)
	out[o+2] = r
}

// addCurvePosition evaluates the cubic Bézier at parameter p, and its tangent angle when tangents is set.
func addCurvePosition(p, x1, y1, cx1, cy1, cx2, cy2, x2, y2 float32, out []float32, o int, tangents bool) {
	if p < epsilon || math32.IsNaN(p) {
		out[o] = x1
		out[o+1] = y1
		out[o+2] = math32.Atan2(cy1-y1, cx1-x1)
		return
	}
	tt := p * p
	ttt := tt * p
	u := 1 - p
	uu := u * u
	uuu := uu * u
	ut := u * p
	ut3 := ut * 3
	uut3 := u * ut3
	utt3 := ut3 * p
	x := x1*uuu + cx1*uut3 + cx2*utt3 + x2*ttt
	y := y1*uuu + cy1*uut3 + cy2*utt3 + y2*ttt
	out[o] = x
	out[o+1] = y
	if tangents {
		if p < 0.001 {
			out[o+2] = math32.Atan2(cy1-y1, cx1-x1)
		} else {
			out[o+2] = math32.Atan2(y-(y1*uu+cy1*ut*2+cy2*tt), x-(x1*uu+cx1*ut*2+cx2*tt))
		}
	}
}

// resize returns *buf with length n, growing its capacity when needed. Contents are not preserved.
func resize(buf *[]float32, n int) []float32 {
	if cap(*buf) < n {
		*buf = make([]float32, n)
	}
	*buf = (*buf)[:n]
	return *buf
}
