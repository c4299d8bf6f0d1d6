package resources

// Tables groups every bindless array one frame reads. Arena-style contiguous
// slices addressed by integer handles; nothing here owns pointers into
// anything else. Single writer (the host, before the frame) then many
// readers (the stages, during it).
type Tables struct {
	Materials []Material
	Instances []MeshInstance
	Draws     []DrawCommand
	Meshlets  []Meshlet

	// Data is the shared meshlet index blob; see Meshlet.DataOffset.
	Data []uint32

	Positions  []VertexPosition
	VertexData []VertexData
}

// MaterialForMeshlet resolves the owning material of a meshlet through its
// mesh index. No bounds checks: an out-of-range mesh index is a contract
// violation of the baking step.
func (t *Tables) MaterialForMeshlet(m *Meshlet) *Material {
	return &t.Materials[m.MeshIndex]
}

// InstanceForMeshlet resolves the owning instance of a meshlet.
func (t *Tables) InstanceForMeshlet(m *Meshlet) *MeshInstance {
	return &t.Instances[m.MeshIndex]
}
