// Package project provides the project file format and persistence.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"

	pimage "pixelforge/internal/image"
	"pixelforge/pkg/colorutil"
)

// Canvas and grid defaults for a fresh project.
const (
	DefaultWidth    = 128
	DefaultHeight   = 128
	DefaultGridSize = 8
	DefaultName     = "Untitled"

	// MaxSize bounds canvas width and height everywhere a size enters the
	// editor: files, the New Canvas dialog and the config.
	MaxSize = 1024
)

// DefaultGridColor is a faint black overlay.
var DefaultGridColor = colorutil.Color{A: 0x33}

var defaultPalette = []string{
	"#000000", "#FFFFFF", "#FF0000", "#00FF00", "#0000FF",
	"#FFFF00", "#FF00FF", "#00FFFF", "#FF8800", "#8800FF",
	"#00FF88", "#FF0088", "#88FF00", "#0088FF", "#888888",
	"#444444", "#CCCCCC", "#880000", "#008800", "#000088",
}

// DefaultPalette returns a fresh copy of the starter palette.
func DefaultPalette() []colorutil.Color {
	out := make([]colorutil.Color, len(defaultPalette))
	for i, s := range defaultPalette {
		out[i] = colorutil.MustParseHex(s)
	}
	return out
}

// Project is the unit of save and load: the layer stack plus canvas settings.
type Project struct {
	Name        string
	Width       int
	Height      int
	Layers      []*pimage.Layer // Top first
	Palette     []colorutil.Color
	Background  colorutil.Color
	GridEnabled bool
	GridColor   colorutil.Color
	GridSize    int
}

// New creates a project with the default canvas, palette and a single empty layer.
func New(name string) *Project {
	if name == "" {
		name = DefaultName
	}
	return &Project{
		Name:        name,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Layers:      pimage.NewStack().Clone(),
		Palette:     DefaultPalette(),
		Background:  colorutil.Transparent,
		GridEnabled: true,
		GridColor:   DefaultGridColor,
		GridSize:    DefaultGridSize,
	}
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	c := *p
	c.Layers = pimage.CloneLayers(p.Layers)
	c.Palette = append([]colorutil.Color(nil), p.Palette...)
	return &c
}

// Equal reports whether two projects match field for field, pixels included.
func (p *Project) Equal(other *Project) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Name != other.Name || p.Width != other.Width || p.Height != other.Height ||
		p.Background != other.Background || p.GridEnabled != other.GridEnabled ||
		p.GridColor != other.GridColor || p.GridSize != other.GridSize {
		return false
	}
	if len(p.Palette) != len(other.Palette) {
		return false
	}
	for i := range p.Palette {
		if p.Palette[i] != other.Palette[i] {
			return false
		}
	}
	return pimage.LayersEqual(p.Layers, other.Layers)
}

// Load reads a project from a JSON file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Save writes the project to a JSON file.
func (p *Project) Save(path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EncodePNG composites layers and writes them as PNG. Each cell becomes a
// scale x scale block; scale below 2 writes the native resolution.
func EncodePNG(w io.Writer, layers []*pimage.Layer, width, height, scale int, bg colorutil.Color) error {
	img := pimage.CompositeLayers(layers, width, height, bg)
	if scale > 1 {
		img = pimage.Scale(img, scale)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// ExportPNG returns the native-resolution composite as PNG bytes.
func ExportPNG(layers []*pimage.Layer, width, height int, bg colorutil.Color) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, layers, width, height, 1, bg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG exports the project composite to a PNG file.
func (p *Project) WritePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, p.Layers, p.Width, p.Height, scale, p.Background); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileProject is the on-disk form. Pointer fields distinguish missing
// values from zero values.
type fileProject struct {
	Name            string       `json:"name"`
	Width           *int         `json:"width"`
	Height          *int         `json:"height"`
	Layers          *[]fileLayer `json:"layers"`
	Palette         *[]string    `json:"palette"`
	BackgroundColor *string      `json:"backgroundColor"`
	GridEnabled     *bool        `json:"gridEnabled"`
	GridColor       *string      `json:"gridColor"`
	GridSize        *int         `json:"gridSize"`
}

type fileLayer struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Visible *bool      `json:"visible"`
	Locked  bool       `json:"locked"`
	Opacity *int       `json:"opacity"`
	Pixels  [][]string `json:"pixels"`
}

// Marshal renders the project as indented JSON. Pixels are written as
// ["x,y", color] pairs in row-major order so files diff cleanly.
func Marshal(p *Project) ([]byte, error) {
	layers := make([]fileLayer, len(p.Layers))
	for i, l := range p.Layers {
		entries := l.Pixels.Entries()
		pixels := make([][]string, len(entries))
		for j, e := range entries {
			pixels[j] = []string{e.Point.Key(), e.Color.String()}
		}
		visible, opacity := l.Visible, l.Opacity
		layers[i] = fileLayer{
			ID:      l.ID,
			Name:    l.Name,
			Visible: &visible,
			Locked:  l.Locked,
			Opacity: &opacity,
			Pixels:  pixels,
		}
	}

	palette := make([]string, len(p.Palette))
	for i, c := range p.Palette {
		palette[i] = c.String()
	}

	width, height, gridSize, gridEnabled := p.Width, p.Height, p.GridSize, p.GridEnabled
	bg, grid := p.Background.String(), p.GridColor.String()
	fp := fileProject{
		Name:            p.Name,
		Width:           &width,
		Height:          &height,
		Layers:          &layers,
		Palette:         &palette,
		BackgroundColor: &bg,
		GridEnabled:     &gridEnabled,
		GridColor:       &grid,
		GridSize:        &gridSize,
	}

	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}
