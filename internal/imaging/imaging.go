// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates downscaled variants of uploaded images in pure
// Go. JPEG sources produce JPEG variants; PNG, GIF and WebP sources produce
// PNG variants so transparency survives. Variants wider than the source are
// skipped to avoid upscaling.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register the GIF decoder
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register the WebP decoder
)

// ErrUnsupported is returned for data that is not a decodable image.
var ErrUnsupported = errors.New("imaging: unsupported image format")

// MaxPixels bounds decoded image size to keep memory predictable.
const MaxPixels = 40_000_000

// Variant describes a single downscaled image size.
type Variant struct {
	Name    string // e.g., "thumb", "md"
	Width   int    // target width in pixels
	Quality int    // JPEG quality 1-100
}

// Thumbnail is the preview stored next to every uploaded image.
var Thumbnail = Variant{Name: "thumb", Width: 320, Quality: 75}

// DefaultVariants are generated when no variants are requested.
var DefaultVariants = []Variant{
	Thumbnail,
	{Name: "md", Width: 1024, Quality: 82},
}

// ProcessedImage holds one generated variant ready for upload.
type ProcessedImage struct {
	Name        string
	Width       int
	Height      int
	Data        []byte
	ContentType string
	Ext         string // file extension including the dot
}

// GenerateVariants decodes original and returns one variant per entry in
// variants, narrowest first, stopping once a variant reaches the source
// width.
func GenerateVariants(original []byte, variants []Variant) ([]ProcessedImage, error) {
	if len(variants) == 0 {
		variants = DefaultVariants
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("imaging: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", format, err)
	}
	origWidth := src.Bounds().Dx()

	var results []ProcessedImage
	for _, v := range variants {
		targetWidth := min(v.Width, origWidth)
		img := Resize(src, targetWidth)

		var buf bytes.Buffer
		out := ProcessedImage{Name: v.Name, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
		if format == "jpeg" {
			err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: v.Quality})
			out.ContentType, out.Ext = "image/jpeg", ".jpg"
		} else {
			err = png.Encode(&buf, img)
			out.ContentType, out.Ext = "image/png", ".png"
		}
		if err != nil {
			return nil, fmt.Errorf("imaging: encode %s: %w", v.Name, err)
		}
		out.Data = buf.Bytes()
		results = append(results, out)

		if origWidth <= v.Width {
			break
		}
	}

	return results, nil
}

// Resize scales src to width, keeping the aspect ratio.
func Resize(src image.Image, width int) image.Image {
	b := src.Bounds()
	if width <= 0 || width >= b.Dx() {
		return src
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
