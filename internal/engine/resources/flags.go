package resources

// DrawFlags is the per-material capability bitset. It is evaluated once per
// draw; stages branch on it instead of probing attribute presence per pixel.
type DrawFlags uint32

const (
	// DrawFlagAlphaMask enables the alpha-cutoff test.
	DrawFlagAlphaMask DrawFlags = 1 << iota
	// DrawFlagDoubleSided flips the shading basis on back faces instead of culling.
	DrawFlagDoubleSided
	// DrawFlagTransparent marks the material for the (out-of-scope) transparent pass.
	DrawFlagTransparent
	// DrawFlagHasNormals marks authored per-vertex normals.
	DrawFlagHasNormals
	// DrawFlagHasUVs marks authored per-vertex texture coordinates.
	DrawFlagHasUVs
	// DrawFlagHasTangents marks authored per-vertex tangents.
	DrawFlagHasTangents
	// DrawFlagAlphaDither enables screen-door transparency via the dither texture.
	DrawFlagAlphaDither
)

// Has reports whether all bits in f are set.
func (d DrawFlags) Has(f DrawFlags) bool {
	return d&f == f
}
