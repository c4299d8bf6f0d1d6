// Package texture provides the bindless texture table, image decoding,
// point sampling and the sRGB transfer functions used by the shading stages.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/pkg/math"
)

// Texture is a decoded RGBA image addressed through the bindless table.
type Texture struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA, row-major
}

// FromImage wraps a decoded image as a Texture.
func FromImage(img image.Image) *Texture {
	rgba := ImageToRGBA(img)
	b := rgba.Bounds()
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    rgba.Pix,
	}
}

// Texel returns the raw [0,1] value of the texel at (x, y) with repeat wrap.
func (t *Texture) Texel(x, y int) math.Vec4 {
	x = ((x % t.Width) + t.Width) % t.Width
	y = ((y % t.Height) + t.Height) % t.Height
	i := (y*t.Width + x) * 4
	return math.Vec4{
		X: float32(t.Pix[i+0]) / 255.0,
		Y: float32(t.Pix[i+1]) / 255.0,
		Z: float32(t.Pix[i+2]) / 255.0,
		W: float32(t.Pix[i+3]) / 255.0,
	}
}

// Sample point-samples the texture at normalized coordinates with repeat wrap.
// Channel values are returned as stored; callers decode sRGB where the
// format demands it.
func (t *Texture) Sample(u, v float32) math.Vec4 {
	x := int(math32.Floor(u * float32(t.Width)))
	y := int(math32.Floor(v * float32(t.Height)))
	return t.Texel(x, y)
}

// SampleSRGB samples and decodes the RGB channels from display encoding to
// linear. Alpha stays linear.
func (t *Texture) SampleSRGB(u, v float32) math.Vec4 {
	c := t.Sample(u, v)
	return math.Vec4{
		X: DecodeSRGB(c.X),
		Y: DecodeSRGB(c.Y),
		Z: DecodeSRGB(c.Z),
		W: c.W,
	}
}

// Table is the global texture array. Index resources.InvalidTextureIndex is
// the reserved "absent" handle; Lookup returns nil for it.
type Table struct {
	textures []*Texture
}

// Add appends a texture and returns its bindless index.
func (tb *Table) Add(t *Texture) uint32 {
	tb.textures = append(tb.textures, t)
	return uint32(len(tb.textures) - 1)
}

// Lookup resolves a bindless index. The sentinel resolves to nil so material
// paths can short-circuit the sample.
func (tb *Table) Lookup(index uint32) *Texture {
	if index == resources.InvalidTextureIndex {
		return nil
	}
	return tb.textures[index]
}

// Len returns the number of resident textures.
func (tb *Table) Len() int {
	return len(tb.textures)
}

// LoadPNG decodes a PNG file into the table and returns its index.
func (tb *Table) LoadPNG(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resources.InvalidTextureIndex, fmt.Errorf("reading texture %s: %w", path, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return resources.InvalidTextureIndex, fmt.Errorf("decoding PNG %s: %w", path, err)
	}
	return tb.Add(FromImage(img)), nil
}

// LoadTGA decodes a TGA file into the table and returns its index.
func (tb *Table) LoadTGA(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resources.InvalidTextureIndex, fmt.Errorf("reading texture %s: %w", path, err)
	}
	img, err := DecodeTGA(data)
	if err != nil {
		return resources.InvalidTextureIndex, fmt.Errorf("decoding TGA %s: %w", path, err)
	}
	return tb.Add(FromImage(img)), nil
}

// DecodeSRGB converts one display-encoded channel to linear.
// Exact piecewise transfer: linear below 0.04045, power law above.
func DecodeSRGB(c float32) float32 {
	c = math.Saturate(c)
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// EncodeSRGB converts one linear channel to display encoding.
// Exact piecewise transfer: linear below 0.0031308, power law above.
func EncodeSRGB(c float32) float32 {
	c = math.Saturate(c)
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math32.Pow(c, 1.0/2.4) - 0.055
}

// DecodeSRGBVec decodes the RGB components, leaving W untouched.
func DecodeSRGBVec(v math.Vec4) math.Vec4 {
	return math.Vec4{X: DecodeSRGB(v.X), Y: DecodeSRGB(v.Y), Z: DecodeSRGB(v.Z), W: v.W}
}

// EncodeSRGBVec encodes the RGB components, leaving W untouched.
func EncodeSRGBVec(v math.Vec4) math.Vec4 {
	return math.Vec4{X: EncodeSRGB(v.X), Y: EncodeSRGB(v.Y), Z: EncodeSRGB(v.Z), W: v.W}
}

// bayer4 is the 4x4 ordered-dither pattern. Thresholds are (v + 0.5)/16.
var bayer4 = [4][4]float32{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// NewBayerDither builds the 4x4 tiled dither texture the alpha-dither path
// samples by pixel coordinate modulo 4.
func NewBayerDither() *Texture {
	t := &Texture{Width: 4, Height: 4, Pix: make([]uint8, 4*4*4)}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(math32.Round((bayer4[y][x] + 0.5) / 16.0 * 255.0))
			i := (y*4 + x) * 4
			t.Pix[i+0] = v
			t.Pix[i+1] = v
			t.Pix[i+2] = v
			t.Pix[i+3] = 255
		}
	}
	return t
}
