package receipt

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoders for uploaded photos
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultThreshold is the gray level above which a pixel becomes white.
const DefaultThreshold = 150

// Binarize converts img to a black and white image. Pixels brighter than threshold
// become white and everything else black, which gives OCR cleaner glyph edges on
// thermal-paper photos.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// Preprocess decodes an uploaded image, binarizes it and re-encodes it as PNG
// for the OCR engine.
func Preprocess(r io.Reader, w io.Writer) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bin := Binarize(img, DefaultThreshold)
	if err := png.Encode(w, bin); err != nil {
		return fmt.Errorf("failed to encode %s image as png: %w", format, err)
	}
	return nil
}
