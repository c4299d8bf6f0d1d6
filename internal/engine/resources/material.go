// Package resources holds the bindless resource tables the pipeline reads:
// flat, index-addressed arrays of materials, mesh instances, draw commands,
// meshlets and vertex blobs. The host uploads them once per frame; every
// stage treats them as immutable.
package resources

import "github.com/Faultbox/lumen/pkg/math"

// InvalidTextureIndex is the "no texture" sentinel. Any texture-index field
// holding this value skips the corresponding sample.
const InvalidTextureIndex = ^uint32(0)

// Material mirrors the GPU-resident mesh material record.
type Material struct {
	DiffuseTexture           uint32
	MetallicRoughnessTexture uint32
	NormalTexture            uint32
	OcclusionTexture         uint32
	EmissiveTexture          uint32

	BaseColorFactor math.Vec4 // linear-space multiplier
	EmissiveFactor  math.Vec3

	MetallicFactor  float32
	RoughnessFactor float32
	OcclusionFactor float32

	Flags       DrawFlags
	AlphaCutoff float32

	// Back-references into the shared vertex/meshlet ranges this material owns.
	VertexOffset  uint32
	MeshIndex     uint32
	MeshletOffset uint32
	MeshletCount  uint32
}

// NewMaterial returns a material with every texture slot set to the sentinel
// and neutral scalar factors.
func NewMaterial() Material {
	return Material{
		DiffuseTexture:           InvalidTextureIndex,
		MetallicRoughnessTexture: InvalidTextureIndex,
		NormalTexture:            InvalidTextureIndex,
		OcclusionTexture:         InvalidTextureIndex,
		EmissiveTexture:          InvalidTextureIndex,
		BaseColorFactor:          math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		MetallicFactor:           1,
		RoughnessFactor:          1,
		OcclusionFactor:          1,
	}
}

// MeshInstance binds a model transform to a mesh. The inverse-transpose is
// stored alongside the model matrix so normal correction costs no per-vertex
// inversion.
type MeshInstance struct {
	Model            math.Mat4
	InverseTranspose math.Mat4
	MeshIndex        uint32
}

// NewMeshInstance derives the inverse-transpose from the model matrix.
func NewMeshInstance(model math.Mat4, meshIndex uint32) MeshInstance {
	return MeshInstance{
		Model:            model,
		InverseTranspose: model.InverseTranspose(),
		MeshIndex:        meshIndex,
	}
}

// DrawCommand groups one draw's instance, index/vertex offsets and the
// task-expansion pair. Produced by the host culling step once per frame.
type DrawCommand struct {
	DrawID uint32

	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	VertexOffset  int32
	FirstInstance uint32

	// TaskCount cluster-selection workgroups are launched starting at FirstTask.
	TaskCount uint32
	FirstTask uint32
}
