package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pimage "pixelforge/internal/image"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, p *Project) *Project {
	t.Helper()
	data, err := Marshal(p)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	return got
}

func TestNewDefaults(t *testing.T) {
	p := New("")
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, 128, p.Width)
	assert.Equal(t, 128, p.Height)
	assert.Len(t, p.Layers, 1)
	assert.Len(t, p.Palette, 20)
	assert.Equal(t, colorutil.Black, p.Palette[0])
	assert.Equal(t, colorutil.MustParseHex("#000088"), p.Palette[19])
	assert.True(t, p.Background.IsTransparent())
	assert.True(t, p.GridEnabled)
	assert.Equal(t, "#00000033", p.GridColor.String())
	assert.Equal(t, 8, p.GridSize)
}

func TestRoundTrip(t *testing.T) {
	full := pimage.NewLayer("Fond plein / 背景")
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			full.Pixels.Set(geometry.Pt(x, y), colorutil.RGB(uint8(x), uint8(y), uint8(x^y)))
		}
	}
	sparse := pimage.NewLayer("Ébauche ✏️")
	sparse.Visible = false
	sparse.Locked = true
	sparse.Opacity = 35
	sparse.Pixels.Set(geometry.Pt(3, 4), colorutil.Color{R: 1, G: 2, B: 3, A: 4})
	sparse.Pixels.Set(geometry.Pt(0, 0), colorutil.Transparent)

	tests := []struct {
		name    string
		project func() *Project
	}{
		{"default", func() *Project { return New("blank") }},
		{"empty layers", func() *Project {
			p := New("two empty")
			p.Layers = append(p.Layers, pimage.NewLayer(""))
			return p
		}},
		{"full canvas", func() *Project {
			p := New("full")
			p.Layers = []*pimage.Layer{full}
			return p
		}},
		{"settings and non-ascii", func() *Project {
			p := New("日本語のプロジェクト")
			p.Width, p.Height = 16, 9
			p.Layers = []*pimage.Layer{sparse, pimage.NewLayer("bottom")}
			p.Palette = []colorutil.Color{colorutil.Red, colorutil.Red, colorutil.Transparent}
			p.Background = colorutil.White
			p.GridEnabled = false
			p.GridColor = colorutil.MustParseHex("#12345678")
			p.GridSize = 3
			return p
		}},
		{"empty palette", func() *Project {
			p := New("no palette")
			p.Palette = []colorutil.Color{}
			return p
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.project()
			got := roundTrip(t, p)
			assert.True(t, p.Equal(got))
		})
	}
}

func TestMarshalFormat(t *testing.T) {
	p := New("fmt")
	p.Layers[0].Pixels.Set(geometry.Pt(2, 1), colorutil.Red)
	p.Layers[0].Pixels.Set(geometry.Pt(5, 0), colorutil.Blue)

	data, err := Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"name", "width", "height", "layers", "palette", "backgroundColor", "gridEnabled", "gridColor", "gridSize"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "transparent", raw["backgroundColor"])

	layer := raw["layers"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{
		[]any{"5,0", "#0000FF"},
		[]any{"2,1", "#FF0000"},
	}, layer["pixels"], "pixels are written row-major")
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"name\""))
}

func TestUnmarshalDefaults(t *testing.T) {
	p, err := Unmarshal([]byte(`{"width": 4, "height": 2, "layers": [{"id": "a"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "", p.Name)
	require.Len(t, p.Layers, 1)
	l := p.Layers[0]
	assert.True(t, l.Visible)
	assert.False(t, l.Locked)
	assert.Equal(t, 100, l.Opacity)
	assert.Equal(t, 0, l.Pixels.Len())
	assert.Equal(t, DefaultPalette(), p.Palette)
	assert.Equal(t, DefaultGridSize, p.GridSize)
	assert.True(t, p.GridEnabled)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not json", `{"width": 4,`, ""},
		{"wrong type", `{"width": "4", "height": 4, "layers": [{"id": "a"}]}`, ""},
		{"missing width", `{"height": 4, "layers": [{"id": "a"}]}`, "width"},
		{"zero height", `{"width": 4, "height": 0, "layers": [{"id": "a"}]}`, "height"},
		{"huge width", `{"width": 200000, "height": 200000, "layers": [{"id": "a", "pixels": []}]}`, "width"},
		{"huge height", `{"width": 1024, "height": 1025, "layers": [{"id": "a"}]}`, "height"},
		{"missing layers", `{"width": 4, "height": 4}`, "layers"},
		{"empty layers", `{"width": 4, "height": 4, "layers": []}`, "layers"},
		{"missing id", `{"width": 4, "height": 4, "layers": [{"name": "x"}]}`, "layers[0].id"},
		{"duplicate id", `{"width": 4, "height": 4, "layers": [{"id": "a"}, {"id": "a"}]}`, "layers[1].id"},
		{"opacity too high", `{"width": 4, "height": 4, "layers": [{"id": "a", "opacity": 101}]}`, "layers[0].opacity"},
		{"short pair", `{"width": 4, "height": 4, "layers": [{"id": "a", "pixels": [["1,1"]]}]}`, "layers[0].pixels[0]"},
		{"bad key", `{"width": 4, "height": 4, "layers": [{"id": "a", "pixels": [["1;1", "#FFFFFF"]]}]}`, "layers[0].pixels[0]"},
		{"out of bounds", `{"width": 4, "height": 4, "layers": [{"id": "a", "pixels": [["0,0", "#000000"], ["4,0", "#FFFFFF"]]}]}`, "layers[0].pixels[1]"},
		{"bad pixel color", `{"width": 4, "height": 4, "layers": [{"id": "a", "pixels": [["0,0", "red"]]}]}`, "layers[0].pixels[0]"},
		{"bad palette", `{"width": 4, "height": 4, "layers": [{"id": "a"}], "palette": ["#FFF", "#GG0000"]}`, "palette[1]"},
		{"bad background", `{"width": 4, "height": 4, "layers": [{"id": "a"}], "backgroundColor": "white"}`, "backgroundColor"},
		{"bad grid size", `{"width": 4, "height": 4, "layers": [{"id": "a"}], "gridSize": -1}`, "gridSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.json")
	p := New("disk")
	p.Layers[0].Pixels.Set(geometry.Pt(7, 7), colorutil.Green)

	require.NoError(t, p.Save(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, p.Equal(got))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExportPNG(t *testing.T) {
	top := pimage.NewLayer("top")
	top.Pixels.Set(geometry.Pt(0, 0), colorutil.Red)
	bottom := pimage.NewLayer("bottom")
	bottom.Pixels.Set(geometry.Pt(0, 0), colorutil.Blue)
	bottom.Pixels.Set(geometry.Pt(1, 1), colorutil.Blue)

	data, err := ExportPNG([]*pimage.Layer{top, bottom}, 3, 2, colorutil.Transparent)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, colorutil.Red, colorutil.FromColor(img.At(0, 0)))
	assert.Equal(t, colorutil.Blue, colorutil.FromColor(img.At(1, 1)))
	assert.Equal(t, colorutil.Transparent, colorutil.FromColor(img.At(2, 0)))
}

func TestWritePNGScaled(t *testing.T) {
	p := New("scaled")
	p.Width, p.Height = 2, 2
	p.Layers[0].Pixels.Set(geometry.Pt(1, 0), colorutil.Green)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, p.WritePNG(path, 4))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, colorutil.Green, colorutil.FromColor(img.At(7, 3)))
	assert.Equal(t, colorutil.Transparent, colorutil.FromColor(img.At(3, 3)))
}
