// Package overlay rasterizes diagnostic text into an RGBA image that the renderer draws over the last good frame.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Overpeek/shaderpg/common"
)

// Rasterizer turns a diagnostic message into an image covering the window.
type Rasterizer interface {
	// Render draws message onto a width x height image. Text that does not fit is cut off.
	//
	// Parameters:
	//   - message: the text to draw; newlines are kept and long lines wrap
	//   - width: image width in pixels
	//   - height: image height in pixels
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels
	//   - error: if the size is not positive
	Render(message string, width, height int) (common.TextureStagingData, error)
}

type rasterizer struct {
	face       font.Face
	fontSize   float64
	margin     int
	tabWidth   int
	textColor  color.RGBA
	background color.RGBA
}

var _ Rasterizer = &rasterizer{}

// NewRasterizer creates a Rasterizer drawing with the Go Mono font.
//
// Parameters:
//   - options: functional options for the rasterizer
//
// Returns:
//   - Rasterizer: the rasterizer
//   - error: if the font could not be loaded
func NewRasterizer(options ...RasterizerBuilderOption) (Rasterizer, error) {
	r := &rasterizer{
		fontSize:   14,
		margin:     8,
		tabWidth:   4,
		textColor:  color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff},
		background: color.RGBA{A: 0xb0},
	}
	for _, opt := range options {
		opt(r)
	}

	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    r.fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay font face: %w", err)
	}
	r.face = face
	return r, nil
}

func (r *rasterizer) Render(message string, width, height int) (common.TextureStagingData, error) {
	if width <= 0 || height <= 0 {
		return common.TextureStagingData{}, fmt.Errorf("overlay size %dx%d is empty", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	metrics := r.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	lines := r.wrap(message, fixed.I(width-2*r.margin))
	visible := max((height-2*r.margin)/max(lineHeight, 1), 0)
	if len(lines) > visible {
		lines = lines[:visible]
	}

	if len(lines) > 0 {
		box := image.Rect(0, 0, width, min(height, 2*r.margin+len(lines)*lineHeight))
		draw.Draw(img, box, image.NewUniform(r.background), image.Point{}, draw.Src)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.textColor),
		Face: r.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(r.margin, r.margin+ascent+i*lineHeight)
		d.DrawString(line)
	}

	return common.TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(width),
		Height: uint32(height),
	}, nil
}

// wrap splits message into lines no wider than limit, breaking at spaces where possible.
func (r *rasterizer) wrap(message string, limit fixed.Int26_6) []string {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.ReplaceAll(message, "\t", strings.Repeat(" ", r.tabWidth))
	message = strings.TrimRight(message, "\n")
	if message == "" {
		return nil
	}

	var out []string
	for _, para := range strings.Split(message, "\n") {
		out = append(out, r.wrapLine(para, limit)...)
	}
	return out
}

func (r *rasterizer) wrapLine(line string, limit fixed.Int26_6) []string {
	if limit <= 0 || font.MeasureString(r.face, line) <= limit {
		return []string{line}
	}

	var out []string
	for len(line) > 0 {
		cut := r.fitPrefix(line, limit)
		if sp := strings.LastIndexByte(line[:cut], ' '); sp > 0 && cut < len(line) {
			cut = sp + 1
		}
		out = append(out, strings.TrimRight(line[:cut], " "))
		line = line[cut:]
	}
	return out
}

// fitPrefix returns the byte length of the longest prefix of s that fits in limit, at least one rune.
func (r *rasterizer) fitPrefix(s string, limit fixed.Int26_6) int {
	var width fixed.Int26_6
	prev := rune(-1)
	for i, c := range s {
		if prev >= 0 {
			width += r.face.Kern(prev, c)
		}
		adv, ok := r.face.GlyphAdvance(c)
		if !ok {
			adv, _ = r.face.GlyphAdvance('?')
		}
		width += adv
		if width > limit {
			if i == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return size
			}
			return i
		}
		prev = c
	}
	return len(s)
}
