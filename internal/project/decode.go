package project

import (
	"encoding/json"
	"errors"
	"fmt"

	pimage "pixelforge/internal/image"
	"pixelforge/internal/pixel"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("invalid project file")

// ParseError reports why project text was rejected. Field is a JSON path
// such as "layers[2].pixels[17]", empty for document-level failures.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid project file: %v", e.Err)
	}
	return fmt.Sprintf("invalid project file: %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) hold for any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErr(field, format string, args ...any) *ParseError {
	return &ParseError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Unmarshal parses project JSON. Either a complete, valid project is
// returned or a *ParseError; nothing partial escapes.
//
// width, height and layers are required. Other fields fall back to the
// defaults used by New, and a layer without pixels is empty.
func Unmarshal(data []byte) (*Project, error) {
	var fp fileProject
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, &ParseError{Err: err}
	}

	p := New(fp.Name)
	p.Name = fp.Name

	var err error
	if p.Width, err = requireSize("width", fp.Width); err != nil {
		return nil, err
	}
	if p.Height, err = requireSize("height", fp.Height); err != nil {
		return nil, err
	}

	if fp.Layers == nil {
		return nil, parseErr("layers", "missing")
	}
	if len(*fp.Layers) == 0 {
		return nil, parseErr("layers", "at least one layer is required")
	}
	bounds := geometry.Bounds(p.Width, p.Height)
	seen := make(map[string]bool, len(*fp.Layers))
	layers := make([]*pimage.Layer, len(*fp.Layers))
	for i, fl := range *fp.Layers {
		field := fmt.Sprintf("layers[%d]", i)
		if fl.ID == "" {
			return nil, parseErr(field+".id", "missing")
		}
		if seen[fl.ID] {
			return nil, parseErr(field+".id", "duplicate id %q", fl.ID)
		}
		seen[fl.ID] = true

		l, err := decodeLayer(field, fl, bounds)
		if err != nil {
			return nil, err
		}
		layers[i] = l
	}
	p.Layers = layers

	if fp.Palette != nil {
		p.Palette = make([]colorutil.Color, len(*fp.Palette))
		for i, s := range *fp.Palette {
			if p.Palette[i], err = parseColor(fmt.Sprintf("palette[%d]", i), s); err != nil {
				return nil, err
			}
		}
	}
	if fp.BackgroundColor != nil {
		if p.Background, err = parseColor("backgroundColor", *fp.BackgroundColor); err != nil {
			return nil, err
		}
	}
	if fp.GridEnabled != nil {
		p.GridEnabled = *fp.GridEnabled
	}
	if fp.GridColor != nil {
		if p.GridColor, err = parseColor("gridColor", *fp.GridColor); err != nil {
			return nil, err
		}
	}
	if fp.GridSize != nil {
		if p.GridSize, err = requirePositive("gridSize", fp.GridSize); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func decodeLayer(field string, fl fileLayer, bounds geometry.Rect) (*pimage.Layer, error) {
	l := &pimage.Layer{
		ID:      fl.ID,
		Name:    fl.Name,
		Visible: true,
		Locked:  fl.Locked,
		Opacity: pimage.MaxOpacity,
		Pixels:  pixel.WithCapacity(len(fl.Pixels)),
	}
	if fl.Visible != nil {
		l.Visible = *fl.Visible
	}
	if fl.Opacity != nil {
		if *fl.Opacity < pimage.MinOpacity || *fl.Opacity > pimage.MaxOpacity {
			return nil, parseErr(field+".opacity", "%d outside 0-100", *fl.Opacity)
		}
		l.Opacity = *fl.Opacity
	}

	for j, pair := range fl.Pixels {
		pf := fmt.Sprintf("%s.pixels[%d]", field, j)
		if len(pair) != 2 {
			return nil, parseErr(pf, "expected [coordinate, color], got %d elements", len(pair))
		}
		pt, err := geometry.ParsePointKey(pair[0])
		if err != nil {
			return nil, &ParseError{Field: pf, Err: err}
		}
		if !bounds.Contains(pt) {
			return nil, parseErr(pf, "%s outside %dx%d canvas", pt, bounds.Width, bounds.Height)
		}
		c, err := parseColor(pf, pair[1])
		if err != nil {
			return nil, err
		}
		l.Pixels.Set(pt, c)
	}
	return l, nil
}

func requirePositive(field string, v *int) (int, error) {
	if v == nil {
		return 0, parseErr(field, "missing")
	}
	if *v <= 0 {
		return 0, parseErr(field, "must be positive, got %d", *v)
	}
	return *v, nil
}

// requireSize is requirePositive capped at MaxSize.
func requireSize(field string, v *int) (int, error) {
	n, err := requirePositive(field, v)
	if err != nil {
		return 0, err
	}
	if n > MaxSize {
		return 0, parseErr(field, "%d exceeds the %d limit", n, MaxSize)
	}
	return n, nil
}

func parseColor(field, s string) (colorutil.Color, error) {
	c, err := colorutil.ParseHex(s)
	if err != nil {
		return colorutil.Color{}, &ParseError{Field: field, Err: err}
	}
	return c, nil
}
