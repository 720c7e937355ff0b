package manager

// TextureManagerBuilderOption is a functional option for configuring a TextureManager.
type TextureManagerBuilderOption func(*textureManager)

// WithMaxTextureSize sets the largest accepted image width or height.
// Values of 0 keep DefaultMaxTextureSize.
//
// Parameters:
//   - size: maximum dimension in pixels
//
// Returns:
//   - TextureManagerBuilderOption: option function to apply
func WithMaxTextureSize(size uint32) TextureManagerBuilderOption {
	return func(m *textureManager) {
		if size > 0 {
			m.maxTextureSize = size
		}
	}
}
