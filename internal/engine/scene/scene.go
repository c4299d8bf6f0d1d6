// Package scene bakes indexed meshes into the bindless resource tables the
// renderer consumes: meshlet packing, attribute quantization, bounding
// spheres and normal cones, and the indirect draw covering the scene.
package scene

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/workgroup"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Scene accumulates meshes and bakes them into shared resource tables.
type Scene struct {
	tables resources.Tables
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddMesh bakes the mesh into the tables under the given material and model
// transform and returns its mesh index. The material's geometry fields
// (vertex offset, meshlet range, mesh index) and attribute flags are filled
// in here; the caller supplies the shading fields.
func (s *Scene) AddMesh(mesh *Mesh, mat resources.Material, model math.Mat4) uint32 {
	meshIndex := uint32(len(s.tables.Materials))
	vertexOffset := uint32(len(s.tables.Positions))

	hasNormals := len(mesh.Normals) == len(mesh.Positions)
	hasTangents := len(mesh.Tangents) == len(mesh.Positions)
	hasUVs := len(mesh.UVs) == len(mesh.Positions)
	if hasNormals {
		mat.Flags |= resources.DrawFlagHasNormals
	}
	if hasUVs {
		mat.Flags |= resources.DrawFlagHasUVs
	}
	if hasTangents {
		mat.Flags |= resources.DrawFlagHasTangents
	}

	for i, p := range mesh.Positions {
		s.tables.Positions = append(s.tables.Positions, resources.VertexPosition{Position: p})

		var vd resources.VertexData
		if hasNormals {
			n := mesh.Normals[i]
			vd.Normal = [4]uint8{
				resources.QuantizeSnorm(n.X),
				resources.QuantizeSnorm(n.Y),
				resources.QuantizeSnorm(n.Z),
				0,
			}
		}
		if hasTangents {
			t := mesh.Tangents[i]
			vd.Tangent = [4]uint8{
				resources.QuantizeSnorm(t.X),
				resources.QuantizeSnorm(t.Y),
				resources.QuantizeSnorm(t.Z),
				resources.QuantizeSnorm(t.W),
			}
		}
		if hasUVs {
			uv := mesh.UVs[i]
			vd.UV = [2]uint16{resources.FloatToHalf(uv.X), resources.FloatToHalf(uv.Y)}
		}
		s.tables.VertexData = append(s.tables.VertexData, vd)
	}

	meshletOffset := uint32(len(s.tables.Meshlets))
	s.packMeshlets(mesh, meshIndex)
	meshletCount := uint32(len(s.tables.Meshlets)) - meshletOffset

	mat.VertexOffset = vertexOffset
	mat.MeshIndex = meshIndex
	mat.MeshletOffset = meshletOffset
	mat.MeshletCount = meshletCount
	s.tables.Materials = append(s.tables.Materials, mat)
	s.tables.Instances = append(s.tables.Instances, resources.NewMeshInstance(model, meshIndex))

	logger.Debug("mesh baked",
		zap.Uint32("mesh", meshIndex),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Uint32("meshlets", meshletCount),
	)
	return meshIndex
}

// Tables finalizes the scene: a single indirect draw covers every baked
// meshlet, its task count rounded up to whole selection workgroups.
func (s *Scene) Tables() *resources.Tables {
	total := uint32(len(s.tables.Meshlets))
	taskCount := (total + workgroup.LaneCount - 1) / workgroup.LaneCount
	s.tables.Draws = []resources.DrawCommand{{
		DrawID:        0,
		InstanceCount: 1,
		TaskCount:     taskCount,
		FirstTask:     0,
	}}
	return &s.tables
}

// packMeshlets splits the mesh's triangles into clusters honoring the
// vertex and triangle limits, in index order. Vertex indices in the blob
// are mesh-local; the material's vertex offset rebases them at expansion.
func (s *Scene) packMeshlets(mesh *Mesh, meshIndex uint32) {
	var (
		verts []uint32
		remap = map[uint32]uint8{}
		tris  []uint8
	)

	flush := func() {
		if len(tris) == 0 {
			return
		}
		s.tables.Meshlets = append(s.tables.Meshlets, s.bakeMeshlet(mesh, meshIndex, verts, tris))
		verts = verts[:0]
		tris = tris[:0]
		remap = map[uint32]uint8{}
	}

	local := func(global uint32) uint8 {
		if l, ok := remap[global]; ok {
			return l
		}
		l := uint8(len(verts))
		remap[global] = l
		verts = append(verts, global)
		return l
	}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]

		fresh := 0
		for _, v := range [3]uint32{a, b, c} {
			if _, ok := remap[v]; !ok {
				fresh++
			}
		}
		if len(verts)+fresh > resources.MaxMeshletVertices ||
			len(tris)/3 >= resources.MaxMeshletTriangles {
			flush()
		}

		tris = append(tris, local(a), local(b), local(c))
	}
	flush()
}

// bakeMeshlet writes one cluster's blob and computes its bounding sphere
// and quantized normal cone.
func (s *Scene) bakeMeshlet(mesh *Mesh, meshIndex uint32, verts []uint32, tris []uint8) resources.Meshlet {
	dataOffset := uint32(len(s.tables.Data))
	s.tables.Data = append(s.tables.Data, verts...)
	for i := 0; i < len(tris); i += 4 {
		var word uint32
		for j := 0; j < 4 && i+j < len(tris); j++ {
			word |= uint32(tris[i+j]) << (j * 8)
		}
		s.tables.Data = append(s.tables.Data, word)
	}

	center, radius := boundingSphere(mesh, verts)
	axis, cutoff := normalCone(mesh, verts, tris)

	return resources.Meshlet{
		Center:        center,
		Radius:        radius,
		ConeAxis:      axis,
		ConeCutoff:    cutoff,
		DataOffset:    dataOffset,
		MeshIndex:     meshIndex,
		VertexCount:   uint8(len(verts)),
		TriangleCount: uint8(len(tris) / 3),
	}
}

// boundingSphere centers the sphere on the cluster's AABB midpoint, which
// keeps the radius within 2x of optimal without an iterative solver.
func boundingSphere(mesh *Mesh, verts []uint32) (math.Vec3, float32) {
	lo := mesh.Positions[verts[0]]
	hi := lo
	for _, v := range verts[1:] {
		p := mesh.Positions[v]
		lo = math.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = math.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	center := lo.Add(hi).Scale(0.5)

	radius := float32(0)
	for _, v := range verts {
		radius = math.Max(radius, mesh.Positions[v].Distance(center))
	}
	return center, radius
}

// normalCone fits a cone around the cluster's face normals. The selection
// stage rejects the cluster when the view direction falls inside it, so the
// cutoff quantization rounds up to stay conservative.
func normalCone(mesh *Mesh, verts []uint32, tris []uint8) ([3]int8, int8) {
	var sum math.Vec3
	normals := make([]math.Vec3, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		p0 := mesh.Positions[verts[tris[i]]]
		p1 := mesh.Positions[verts[tris[i+1]]]
		p2 := mesh.Positions[verts[tris[i+2]]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if n.Length() == 0 {
			continue
		}
		n = n.Normalize()
		normals = append(normals, n)
		sum = sum.Add(n)
	}

	if sum.Length() < 1e-6 {
		// Degenerate spread: a cutoff of 1 never rejects.
		return [3]int8{}, 127
	}
	axis := sum.Normalize()

	minDot := float32(1)
	for _, n := range normals {
		minDot = math.Min(minDot, axis.Dot(n))
	}
	if minDot <= 0 {
		return quantizeAxis(axis), 127
	}

	// Every normal lies within acos(minDot) of the axis; the whole cluster
	// faces away once view . axis exceeds sin of that spread.
	cutoff := math32.Sqrt(1 - minDot*minDot)
	q := int8(math32.Ceil(cutoff * 127))
	return quantizeAxis(axis), q
}

func quantizeAxis(a math.Vec3) [3]int8 {
	return [3]int8{snorm8(a.X), snorm8(a.Y), snorm8(a.Z)}
}

func snorm8(v float32) int8 {
	v = math.Clamp(v, -1, 1) * 127
	if v >= 0 {
		return int8(v + 0.5)
	}
	return int8(v - 0.5)
}
