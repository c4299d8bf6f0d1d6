// Package meshlet implements the mesh-level expansion stage: a 32-lane
// workgroup per selected meshlet decodes the quantized vertex attributes,
// applies the owning instance transform and emits per-vertex shading
// attributes plus a compacted triangle index list.
package meshlet

import (
	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/workgroup"
	"github.com/Faultbox/lumen/pkg/math"
)

// Vertex is one expanded vertex: the interpolator payload handed to
// rasterization.
type Vertex struct {
	ClipPosition  math.Vec4
	WorldPosition math.Vec3
	Normal        math.Vec3
	Tangent       math.Vec3
	Bitangent     math.Vec3
	UV            math.Vec2
}

// Expanded is one meshlet's expansion output. Vertices and Indices are
// bounded by the bake-time meshlet caps.
type Expanded struct {
	Vertices      [resources.MaxMeshletVertices]Vertex
	VertexCount   uint32
	Indices       [resources.MaxMeshletTriangles * 3]uint32
	TriangleCount uint32
	MaterialIndex uint32
	Flags         resources.DrawFlags
}

// Expand runs the expansion workgroup for one meshlet index. Lanes stride
// the vertex and index ranges in steps of 32; trailing lanes of a partial
// stride touch nothing.
func Expand(tables *resources.Tables, fc *frame.Constants, meshletIndex uint32) *Expanded {
	m := &tables.Meshlets[meshletIndex]
	mat := tables.MaterialForMeshlet(m)
	inst := tables.InstanceForMeshlet(m)

	out := &Expanded{
		VertexCount:   uint32(m.VertexCount),
		TriangleCount: uint32(m.TriangleCount),
		MaterialIndex: m.MeshIndex,
		Flags:         mat.Flags,
	}

	hasNormals := mat.Flags.Has(resources.DrawFlagHasNormals)
	hasUVs := mat.Flags.Has(resources.DrawFlagHasUVs)
	hasTangents := mat.Flags.Has(resources.DrawFlagHasTangents)

	vertexCount := uint32(m.VertexCount)
	indexCount := uint32(m.TriangleCount) * 3

	workgroup.Dispatch(1, func(_, lane int, b *workgroup.Barrier) {
		for v := uint32(lane); v < vertexCount; v += workgroup.LaneCount {
			vi := mat.VertexOffset + m.VertexIndex(tables.Data, v)

			local := tables.Positions[vi].Position
			world := inst.Model.TransformPoint(local)

			vert := &out.Vertices[v]
			vert.WorldPosition = world
			vert.ClipPosition = fc.ViewProjection.MulVec4(math.Vec3W(world, 1))

			if hasNormals || hasUVs || hasTangents {
				attr := &tables.VertexData[vi]

				if hasUVs {
					vert.UV = attr.UVVec()
				}
				if hasNormals {
					n := attr.NormalVec()
					vert.Normal = inst.InverseTranspose.TransformDirection(n).Normalize()
				}
				if hasTangents {
					t, handedness := attr.TangentVec()
					vert.Tangent = inst.InverseTranspose.TransformDirection(t).Normalize()
					vert.Bitangent = vert.Normal.Cross(vert.Tangent).Scale(handedness)
				}
			}
		}

		for i := uint32(lane); i < indexCount; i += workgroup.LaneCount {
			out.Indices[i] = m.LocalTriangleIndex(tables.Data, i)
		}

		b.Wait()

		if lane == 0 {
			out.TriangleCount = uint32(m.TriangleCount)
		}
	})

	return out
}
