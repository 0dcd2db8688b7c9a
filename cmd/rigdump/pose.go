package main

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-rig/engine/loader"
	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-rig/engine/vertex_effect"
	"gopkg.in/yaml.v3"
)

type poseOptions struct {
	skin           string
	x, y           float32
	scaleX, scaleY float32
	vertices       bool
	jitter         float32
	seed           uint64
}

type poseDump struct {
	Skeleton string     `yaml:"skeleton"`
	Skin     string     `yaml:"skin,omitempty"`
	Bounds   [4]float32 `yaml:"bounds,flow"`
	Bones    []boneDump `yaml:"bones"`
	Slots    []slotDump `yaml:"slots,omitempty"`
}

type boneDump struct {
	Name     string     `yaml:"name"`
	Active   bool       `yaml:"active"`
	X        float32    `yaml:"x"`
	Y        float32    `yaml:"y"`
	Rotation float32    `yaml:"rotation"`
	ScaleX   float32    `yaml:"scaleX"`
	ScaleY   float32    `yaml:"scaleY"`
	Matrix   [4]float32 `yaml:"matrix,flow"`
}

type slotDump struct {
	Name       string       `yaml:"name"`
	Attachment string       `yaml:"attachment,omitempty"`
	Vertices   [][2]float32 `yaml:"vertices,flow,omitempty"`
	Triangles  []uint16     `yaml:"triangles,flow,omitempty"`
}

// runPose loads the rig at path, runs one pose pass and writes the dump to w.
func runPose(w io.Writer, path string, opts poseOptions) error {
	data, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	skOpts := []skeleton.SkeletonBuilderOption{
		skeleton.WithPosition(opts.x, opts.y),
		skeleton.WithScale(opts.scaleX, opts.scaleY),
	}
	if opts.skin != "" {
		skOpts = append(skOpts, skeleton.WithSkin(opts.skin))
	}
	sk, err := skeleton.NewSkeleton(data, skOpts...)
	if err != nil {
		return fmt.Errorf("failed to build skeleton: %w", err)
	}
	sk.UpdateWorldTransform()

	dump := poseDump{Skeleton: data.Name}
	if skin := sk.Skin(); skin != nil {
		dump.Skin = skin.Name()
	}
	bx, by, bw, bh := sk.Bounds()
	dump.Bounds = [4]float32{bx, by, bw, bh}

	for _, b := range sk.Bones() {
		dump.Bones = append(dump.Bones, boneDump{
			Name:     b.Data().Name,
			Active:   b.IsActive(),
			X:        b.WorldX,
			Y:        b.WorldY,
			Rotation: b.WorldRotationX(),
			ScaleX:   b.WorldScaleX(),
			ScaleY:   b.WorldScaleY(),
			Matrix:   [4]float32{b.A, b.B, b.C, b.D},
		})
	}

	if opts.vertices {
		var effect skeleton.VertexEffect
		if opts.jitter > 0 {
			effect = vertex_effect.NewJitter(opts.jitter, opts.jitter, vertex_effect.WithJitterSeed(opts.seed))
		}
		var scratch []skeleton.WorldVertex
		for _, slot := range sk.DrawOrder() {
			sd := slotDump{Name: slot.Data().Name}
			if a := slot.Attachment(); a != nil {
				sd.Attachment = a.Name()
			}
			scratch = skeleton.EmitSlotVertices(slot, effect, scratch[:0])
			for _, v := range scratch {
				sd.Vertices = append(sd.Vertices, [2]float32{v.Position.X, v.Position.Y})
			}
			if len(sd.Vertices) > 0 {
				sd.Triangles = skeleton.SlotTriangles(slot)
			}
			dump.Slots = append(dump.Slots, sd)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&dump); err != nil {
		return fmt.Errorf("failed to encode pose: %w", err)
	}
	return enc.Close()
}
