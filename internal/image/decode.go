package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixelforge/internal/pixel"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// Decode reads an image and converts it into a pixel map of width x height.
//
// The source is resized with nearest-neighbour sampling. Cells with any
// alpha become opaque #RRGGBB pixels; fully transparent cells stay unset.
func Decode(r io.Reader, width, height int) (*pixel.Map, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img, width, height), nil
}

// Load opens and decodes an image file into a width x height pixel map.
func Load(path string, width, height int) (*pixel.Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return Decode(file, width, height)
}

// FromImage converts an already decoded image.
func FromImage(img image.Image, width, height int) *pixel.Map {
	scaled := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	m := pixel.New()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := scaled.PixOffset(x, y)
			if scaled.Pix[i+3] == 0 {
				continue
			}
			m.Set(geometry.Pt(x, y), colorutil.RGB(scaled.Pix[i], scaled.Pix[i+1], scaled.Pix[i+2]))
		}
	}
	return m
}

// SupportedFormats returns the list of importable image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
