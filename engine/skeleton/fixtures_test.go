package skeleton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

// rigBuilder assembles SkeletonData for tests, keeping indices consistent.
type rigBuilder struct {
	data *SkeletonData
	ids  *IDAllocator
}

func newRig(rootName string) *rigBuilder {
	return &rigBuilder{
		data: &SkeletonData{Name: "test", Bones: []*BoneData{NewBoneData(0, rootName, nil)}},
		ids:  NewIDAllocator(),
	}
}

func (r *rigBuilder) bone(name, parent string) *BoneData {
	p := r.data.FindBone(parent)
	if p == nil {
		panic("unknown parent " + parent)
	}
	b := NewBoneData(len(r.data.Bones), name, p)
	r.data.Bones = append(r.data.Bones, b)
	return b
}

func (r *rigBuilder) slot(name, bone string) *SlotData {
	s := NewSlotData(len(r.data.Slots), name, r.data.FindBone(bone))
	r.data.Slots = append(r.data.Slots, s)
	return s
}

func (r *rigBuilder) defaultSkin() *Skin {
	if r.data.DefaultSkin == nil {
		r.data.DefaultSkin = NewSkin("default")
		r.data.Skins = append(r.data.Skins, r.data.DefaultSkin)
	}
	return r.data.DefaultSkin
}

func (r *rigBuilder) build(t *testing.T, options ...SkeletonBuilderOption) *skeleton {
	t.Helper()
	sk, err := NewSkeleton(r.data, options...)
	require.NoError(t, err)
	return sk.(*skeleton)
}

// cacheIndex returns the position of u in the update order, or -1.
func cacheIndex(sk Skeleton, u Updatable) int {
	for i, e := range sk.UpdateCacheEntries() {
		if e == u {
			return i
		}
	}
	return -1
}
