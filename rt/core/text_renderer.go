package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const atlasSize = 512

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is one block of overlay text. Position is in pixels from the top-left corner.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// TextRenderer rasterizes printable ASCII into a single alpha atlas and turns text
// items into clip-space quads.
type TextRenderer struct {
	AtlasImage *image.Alpha
	Glyphs     map[rune]GlyphInfo
	Face       font.Face
}

// NewMonoTextRenderer uses the embedded Go Mono face, so the overlay needs no font files.
func NewMonoTextRenderer(fontSize float64) (*TextRenderer, error) {
	return NewTextRenderer(gomono.TTF, fontSize)
}

func NewTextRenderer(ttf []byte, fontSize float64) (*TextRenderer, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]GlyphInfo)

	x, y := 2, 2
	rowHeight := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()
		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)

		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &TextRenderer{
		AtlasImage: atlas,
		Glyphs:     glyphs,
		Face:       face,
	}, nil
}

// BuildVertices emits two triangles per glyph. Unknown runes are skipped and
// newlines restart at the item's left edge.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if tr == nil || screenW <= 0 || screenH <= 0 {
		return nil
	}

	vertices := make([]TextVertex, 0, len(items)*6)
	sw := float32(screenW)
	sh := float32(screenH)
	metrics := tr.Face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	toClip := func(px, py float32) [2]float32 {
		return [2]float32{px/sw*2.0 - 1.0, 1.0 - py/sh*2.0}
	}

	for _, item := range items {
		scale := item.Scale
		if scale == 0 {
			scale = 1
		}
		penX := item.Position[0]
		penY := item.Position[1] + ascent*scale

		for _, r := range item.Text {
			if r == '\n' {
				penX = item.Position[0]
				penY += lineHeight * scale
				continue
			}
			g, ok := tr.Glyphs[r]
			if !ok {
				continue
			}

			tl := toClip(penX+g.Off[0]*scale, penY+g.Off[1]*scale)
			br := toClip(penX+(g.Off[0]+g.Size[0])*scale, penY+(g.Off[1]+g.Size[1])*scale)
			tr2 := [2]float32{br[0], tl[1]}
			bl := [2]float32{tl[0], br[1]}

			vertices = append(vertices,
				TextVertex{Pos: tl, UV: g.UVMin, Color: item.Color},
				TextVertex{Pos: tr2, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: bl, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
				TextVertex{Pos: tr2, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: br, UV: g.UVMax, Color: item.Color},
				TextVertex{Pos: bl, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
			)

			penX += g.Adv * scale
		}
	}

	return vertices
}

func (tr *TextRenderer) GetLineHeight(scale float32) float32 {
	if tr == nil {
		return 0
	}
	return float32(tr.Face.Metrics().Height.Ceil()) * scale
}
