package overlay

import "image/color"

// RasterizerBuilderOption is a functional option for configuring a Rasterizer.
type RasterizerBuilderOption func(*rasterizer)

// WithFontSize sets the font size in points at 72 DPI. Values <= 0 are ignored.
//
// Parameters:
//   - size: font size (default 14)
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithFontSize(size float64) RasterizerBuilderOption {
	return func(r *rasterizer) {
		if size > 0 {
			r.fontSize = size
		}
	}
}

// WithMargin sets the padding between the image edge and the text.
//
// Parameters:
//   - margin: padding in pixels (default 8)
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithMargin(margin int) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.margin = max(margin, 0)
	}
}

// WithTextColor sets the text color.
func WithTextColor(c color.RGBA) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.textColor = c
	}
}

// WithBackground sets the color of the backdrop behind the text. Use a zero alpha to disable it.
func WithBackground(c color.RGBA) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.background = c
	}
}
