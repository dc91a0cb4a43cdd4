package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pixelforge/internal/project"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

func writeProject(t *testing.T, dir, name string) string {
	t.Helper()
	p := project.New(name)
	p.Width, p.Height = 4, 2
	p.Layers[0].Pixels.Set(geometry.Pt(1, 1), colorutil.Red)
	path := filepath.Join(dir, name+".json")
	require.NoError(t, p.Save(path))
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	a := writeProject(t, dir, "a")
	b := writeProject(t, dir, "b")
	out := filepath.Join(dir, "png")

	bg := colorutil.White
	require.NoError(t, exportAll(zap.NewNop(), []string{a, b}, out, options{scale: 2, bg: &bg}))

	for _, name := range []string{"a.png", "b.png"} {
		img := decodePNG(t, filepath.Join(out, name))
		assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(img.At(3, 3)))
		assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, color.NRGBAModel.Convert(img.At(0, 0)))
	}
}

func TestExportAllReportsBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"width": 2}`), 0o644))

	err := exportAll(zap.NewNop(), []string{bad}, dir, options{scale: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, project.ErrParse)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestRenderProjectRejectsScale(t *testing.T) {
	err := renderProject(zap.NewNop(), "unused.json", "unused.png", options{scale: 0}, false)
	assert.Error(t, err)
}

func TestConvertImage(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 255})
	in := filepath.Join(dir, "sprite.png")
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "sprite.json")
	require.NoError(t, convertImage(zap.NewNop(), in, out, options{width: 2, height: 2}))

	p, err := project.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "sprite", p.Name)
	c, ok := p.Layers[0].Pixels.Get(geometry.Pt(0, 0))
	require.True(t, ok)
	assert.Equal(t, colorutil.Blue, c)
}
