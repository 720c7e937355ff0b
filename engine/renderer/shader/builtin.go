package shader

import _ "embed"

// QuadVertexSource is the fixed vertex stage of every playground program. It expands
// vertex indices 0..3 into a full-screen triangle strip and passes uv in [0, 1] with
// (0, 0) at the top left to the fragment stage at @location(0).
//
//go:embed assets/quad.vert.wgsl
var QuadVertexSource string

// OverlayFragmentSource draws the error overlay texture over the whole surface.
//
//go:embed assets/overlay.frag.wgsl
var OverlayFragmentSource string

// QuadVertexCount is the number of vertices drawn for one full-screen quad.
const QuadVertexCount = 4
