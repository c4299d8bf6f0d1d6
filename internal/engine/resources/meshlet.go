package resources

import "github.com/Faultbox/lumen/pkg/math"

// Hard upper bounds enforced at bake time. A meshlet never exceeds them at
// runtime; the expansion stage sizes its outputs accordingly.
const (
	MaxMeshletVertices  = 64
	MaxMeshletTriangles = 124
)

// Meshlet is the unit of culling and parallel expansion: a bounded triangle
// cluster with a bounding sphere and a quantized normal cone.
type Meshlet struct {
	Center math.Vec3
	Radius float32

	// Cone axis components and cutoff are snorm8 quantized (value/127).
	ConeAxis   [3]int8
	ConeCutoff int8

	// DataOffset indexes the shared Data blob: VertexCount vertex indices
	// followed by the packed local triangle indices.
	DataOffset uint32
	MeshIndex  uint32

	VertexCount   uint8
	TriangleCount uint8
}

// ConeAxisVec dequantizes the cone axis to a float vector.
func (m *Meshlet) ConeAxisVec() math.Vec3 {
	return math.Vec3{
		X: float32(m.ConeAxis[0]) / 127.0,
		Y: float32(m.ConeAxis[1]) / 127.0,
		Z: float32(m.ConeAxis[2]) / 127.0,
	}
}

// ConeCutoffValue dequantizes the cone cutoff angle cosine.
func (m *Meshlet) ConeCutoffValue() float32 {
	return float32(m.ConeCutoff) / 127.0
}

// VertexIndex reads the i-th global vertex index of the meshlet from the
// shared blob. No bounds checks: callers honor VertexCount.
func (m *Meshlet) VertexIndex(data []uint32, i uint32) uint32 {
	return data[m.DataOffset+i]
}

// LocalTriangleIndex reads the i-th local triangle index (i in
// [0, TriangleCount*3)). Indices are packed one byte each, four per word,
// after the vertex-index run.
func (m *Meshlet) LocalTriangleIndex(data []uint32, i uint32) uint32 {
	word := data[m.DataOffset+uint32(m.VertexCount)+i/4]
	return (word >> ((i % 4) * 8)) & 0xff
}
