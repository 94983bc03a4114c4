package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonoTextRendererAtlas(t *testing.T) {
	tr, err := NewMonoTextRenderer(16)
	require.NoError(t, err)

	for _, r := range "posegrid 0123456789.-" {
		if r == ' ' {
			continue
		}
		_, ok := tr.Glyphs[r]
		assert.True(t, ok, "missing glyph %q", r)
	}
	assert.Equal(t, atlasSize, tr.AtlasImage.Bounds().Dx())
}

func TestBuildVertices(t *testing.T) {
	tr, err := NewMonoTextRenderer(16)
	require.NoError(t, err)

	items := []TextItem{{Text: "ab\ncd", Position: [2]float32{10, 10}, Scale: 1, Color: [4]float32{1, 1, 1, 1}}}
	verts := tr.BuildVertices(items, 640, 480)

	// Four visible glyphs, six vertices each; the newline emits nothing.
	require.Len(t, verts, 24)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
		assert.GreaterOrEqual(t, v.Pos[1], float32(-1))
		assert.LessOrEqual(t, v.Pos[1], float32(1))
	}

	// The second line sits below the first.
	assert.Less(t, verts[12].Pos[1], verts[0].Pos[1])
}

func TestBuildVerticesZeroSurface(t *testing.T) {
	tr, err := NewMonoTextRenderer(16)
	require.NoError(t, err)

	assert.Nil(t, tr.BuildVertices([]TextItem{{Text: "x"}}, 0, 0))

	var nilRenderer *TextRenderer
	assert.Nil(t, nilRenderer.BuildVertices([]TextItem{{Text: "x"}}, 10, 10))
	assert.Equal(t, float32(0), nilRenderer.GetLineHeight(1))
}
