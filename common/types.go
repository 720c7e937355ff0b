// package common contains plain data types, errors and the shared logger used throughout the engine.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA8 pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the row-major pixel data, 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Validate reports whether the staging data describes a non-empty image with a matching pixel buffer.
//
// Returns:
//   - error: a *DecodeError when the dimensions or buffer length are inconsistent
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return &DecodeError{Message: fmt.Sprintf("image has empty dimensions %dx%d", t.Width, t.Height)}
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return &DecodeError{Message: fmt.Sprintf("image %dx%d needs %d bytes of RGBA8 data, got %d", t.Width, t.Height, want, len(t.Pixels))}
	}
	return nil
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify addressing outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering level, 1 disables it.
	MaxAnisotropy uint16
}

// NearestClampSampler returns the sampler configuration used for the playground texture:
// nearest filtering with clamp-to-edge addressing on every axis.
func NearestClampSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// PlaceholderTexture returns the 1x1 texture bound before any image has been loaded.
// Its single pixel is opaque white.
func PlaceholderTexture() TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
		Width:  1,
		Height: 1,
	}
}

// DecodeTexture decodes encoded image bytes into RGBA8 pixel data.
// Every format registered with the image package is accepted: PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Parameters:
//   - data: the encoded image file contents
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: a *DecodeError carrying the decoder's message if the bytes cannot be decoded
func DecodeTexture(data []byte) (TextureStagingData, error) {
	if len(data) == 0 {
		return TextureStagingData{}, &DecodeError{Message: "image: no data"}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return TextureStagingData{}, &DecodeError{Message: err.Error()}
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	staging := TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
	return staging, staging.Validate()
}
