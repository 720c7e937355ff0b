package manager

import (
	"fmt"

	"github.com/Overpeek/shaderpg/common"
)

// DefaultMaxTextureSize is the largest accepted width or height, matching the WebGPU default limit.
const DefaultMaxTextureSize = 8192

// TextureManager holds the texture bound at group 0, bindings 1 and 2.
// It is owned by the render loop and is not safe for concurrent use.
type TextureManager interface {
	// Load decodes data and uploads it without installing it.
	//
	// Parameters:
	//   - data: encoded image file contents
	//
	// Returns:
	//   - Resource: the uploaded texture
	//   - error: a *common.DecodeError when the bytes are not a usable image
	Load(data []byte) (Resource, error)

	// Update loads data and installs the result, releasing the texture it replaces.
	// On failure the current texture is left untouched.
	//
	// Parameters:
	//   - data: encoded image file contents
	//
	// Returns:
	//   - string: "ok" or the decoder message, verbatim
	Update(data []byte) string

	// Current returns the installed texture. Before the first successful Update it is the placeholder.
	Current() Resource

	// Release releases the installed texture.
	Release()
}

type textureManager struct {
	uploader       TextureUploader
	current        Resource
	maxTextureSize uint32
}

var _ TextureManager = &textureManager{}

// NewTextureManager creates a manager holding the 1x1 placeholder texture.
//
// Parameters:
//   - uploader: creates GPU textures
//   - options: functional options for the manager
//
// Returns:
//   - TextureManager: the manager
//   - error: if the placeholder could not be created
func NewTextureManager(uploader TextureUploader, options ...TextureManagerBuilderOption) (TextureManager, error) {
	m := &textureManager{
		uploader:       uploader,
		maxTextureSize: DefaultMaxTextureSize,
	}
	for _, opt := range options {
		opt(m)
	}

	placeholder, err := uploader.CreateTexture(common.PlaceholderTexture())
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder texture: %w", err)
	}
	m.current = placeholder
	return m, nil
}

func (m *textureManager) Load(data []byte) (Resource, error) {
	staging, err := common.DecodeTexture(data)
	if err != nil {
		return nil, err
	}
	if staging.Width > m.maxTextureSize || staging.Height > m.maxTextureSize {
		return nil, &common.DecodeError{
			Message: fmt.Sprintf("image %dx%d exceeds the maximum texture size of %d", staging.Width, staging.Height, m.maxTextureSize),
		}
	}

	tex, err := m.uploader.CreateTexture(staging)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %dx%d texture: %w", staging.Width, staging.Height, err)
	}
	return tex, nil
}

func (m *textureManager) Update(data []byte) string {
	tex, err := m.Load(data)
	if err != nil {
		common.Logger().Warn("texture rejected", "bytes", len(data), "error", err)
		return outcomeOf(err)
	}

	if m.current != nil {
		m.current.Release()
	}
	m.current = tex
	common.Logger().Debug("texture installed", "bytes", len(data))
	return outcomeOf(nil)
}

func (m *textureManager) Current() Resource {
	return m.current
}

func (m *textureManager) Release() {
	if m.current != nil {
		m.current.Release()
		m.current = nil
	}
}
