package audio

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // thumbnails are often served as webp
)

// CoverMaxSize is the largest edge, in pixels, of an embedded cover
const CoverMaxSize = 500

// coverJPEGQuality is used when re-encoding covers
const coverJPEGQuality = 90

// ResizeCover decodes an image, scales it to fit within maxSize x maxSize
// keeping the aspect ratio, and returns it as JPEG. Smaller images are only
// re-encoded.
func ResizeCover(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := scaledSize(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scaledSize(width, height, maxSize int) (int, int) {
	if width <= maxSize && height <= maxSize {
		return width, height
	}
	if width >= height {
		h := height * maxSize / width
		if h < 1 {
			h = 1
		}
		return maxSize, h
	}
	w := width * maxSize / height
	if w < 1 {
		w = 1
	}
	return w, maxSize
}
