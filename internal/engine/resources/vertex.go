package resources

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// VertexData holds the quantized per-vertex shading attributes. Positions
// live in a separate full-precision array so position-only passes (depth,
// shadows) never touch this blob.
type VertexData struct {
	// Normal and Tangent are snorm8: value/127 - 1 recovers [-1, 1].
	// Tangent w carries the handedness sign.
	Normal  [4]uint8
	Tangent [4]uint8
	// UV components are IEEE half floats.
	UV [2]uint16
}

// VertexPosition is a full-precision vertex position.
type VertexPosition struct {
	Position math.Vec3
}

// DequantizeSnorm recovers a [-1, 1] component from its quantized byte:
// byte 0 -> -1, byte 127 -> 0, byte 254 -> 1.
func DequantizeSnorm(b uint8) float32 {
	return float32(b)*(1.0/127.0) - 1.0
}

// QuantizeSnorm is the bake-side inverse of DequantizeSnorm.
func QuantizeSnorm(v float32) uint8 {
	q := math32.Round((math.Clamp(v, -1, 1) + 1.0) * 127.0)
	if q > 254 {
		q = 254
	}
	return uint8(q)
}

// NormalVec dequantizes the vertex normal.
func (v *VertexData) NormalVec() math.Vec3 {
	return math.Vec3{
		X: DequantizeSnorm(v.Normal[0]),
		Y: DequantizeSnorm(v.Normal[1]),
		Z: DequantizeSnorm(v.Normal[2]),
	}
}

// TangentVec dequantizes the vertex tangent. The returned sign is the
// handedness used to orient the bitangent.
func (v *VertexData) TangentVec() (math.Vec3, float32) {
	t := math.Vec3{
		X: DequantizeSnorm(v.Tangent[0]),
		Y: DequantizeSnorm(v.Tangent[1]),
		Z: DequantizeSnorm(v.Tangent[2]),
	}
	return t, DequantizeSnorm(v.Tangent[3])
}

// UVVec decodes the half-precision texture coordinates.
func (v *VertexData) UVVec() math.Vec2 {
	return math.Vec2{X: HalfToFloat(v.UV[0]), Y: HalfToFloat(v.UV[1])}
}

// HalfToFloat converts an IEEE 754 binary16 value to float32.
func HalfToFloat(h uint16) float32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	var bits uint32
	switch {
	case exp == 0 && mant == 0:
		bits = sign << 31
	case exp == 0:
		// Subnormal: normalize into float32 range.
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3ff
		bits = sign<<31 | e<<23 | mant<<13
	case exp == 0x1f:
		bits = sign<<31 | 0xff<<23 | mant<<13 // inf / NaN
	default:
		bits = sign<<31 | (exp+127-15)<<23 | mant<<13
	}
	return math32.Float32frombits(bits)
}

// FloatToHalf converts a float32 to IEEE 754 binary16, rounding to nearest.
func FloatToHalf(f float32) uint16 {
	bits := math32.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23)&0xff - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case exp >= 0x1f:
		return sign | 0x7c00 // overflow to inf
	case exp <= 0:
		if exp < -10 {
			return sign // underflow to zero
		}
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		if mant>>(shift-1)&1 != 0 {
			half++
		}
		return sign | half
	default:
		half := sign | uint16(exp)<<10 | uint16(mant>>13)
		if mant&0x1000 != 0 {
			half++
		}
		return half
	}
}
