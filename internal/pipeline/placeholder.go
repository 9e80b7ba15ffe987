package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

const (
	placeholderWidth  = 1024
	placeholderHeight = 1024
)

// Dark slate fill.
var placeholderFill = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}

// writePlaceholderPNG writes a solid-color PNG to the target path, creating
// parent directories and overwriting any existing file.
func writePlaceholderPNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	for y := 0; y < placeholderHeight; y++ {
		for x := 0; x < placeholderWidth; x++ {
			img.SetRGBA(x, y, placeholderFill)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create placeholder image: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode placeholder image: %w", err)
	}
	return nil
}
