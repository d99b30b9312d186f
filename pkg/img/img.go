// Package img provides the image manipulation layer around the
// quantizer: decoding, resizing and indexed-color encoding.
package img

import (
	"image/color"
	"io"
)

// ImageCompression is the compression level used by PNG encoding.
type ImageCompression uint8

// Available compression levels.
const (
	CompressionFast ImageCompression = iota
	CompressionBest
)

// Image describes the interface of an image manipulation object.
type Image interface {
	Close() error
	Format() string
	Width() uint
	Height() uint
	SetFormat(string) error
	SetCompression(ImageCompression) error
	SetQuality(uint8) error
	SetNumColors(int) error
	SetBackground(color.Color) error
	Resize(w, h uint) error
	Fit(w, h uint) error
	Grayscale() error
	Quantize() error
	Encode(io.Writer) error
}

// ImageFilter is a filter function applied by Pipeline.
type ImageFilter func(Image) error

// Pipeline applies all the given ImageFilter functions to the image.
func Pipeline(im Image, filters ...ImageFilter) error {
	for _, fn := range filters {
		if err := fn(im); err != nil {
			return err
		}
	}
	return nil
}
