package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Tensor is a height x width x RGB image scaled to [0,1].
type Tensor [][][]float32

// Preprocess decodes a JPEG or PNG image, resizes it to size x size, and
// scales channel values to [0,1]. Images whose header declares more than
// maxPixels pixels are rejected before any pixel buffer is allocated; a
// maxPixels of zero disables the check.
func Preprocess(data []byte, size int, maxPixels int64) (Tensor, error) {
	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if px := int64(hdr.Width) * int64(hdr.Height); maxPixels > 0 && px > maxPixels {
		return nil, fmt.Errorf(
			"%w: %dx%d exceeds %d pixels",
			ErrInvalidImage, hdr.Width, hdr.Height, maxPixels,
		)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	t := make(Tensor, size)
	for y := range size {
		row := make([][]float32, size)
		for x := range size {
			i := dst.PixOffset(x, y)
			row[x] = []float32{
				float32(dst.Pix[i]) / 255,
				float32(dst.Pix[i+1]) / 255,
				float32(dst.Pix[i+2]) / 255,
			}
		}
		t[y] = row
	}

	return t, nil
}
