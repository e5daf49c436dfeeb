package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// IsImageUpload is the upload predicate: it accepts or rejects a file header
// before any buffering begins, with a reason the handler can surface.
func IsImageUpload(header *multipart.FileHeader) (bool, string) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return false, "Not an image. Please upload only images"
	}
	if header.Size > MaxImageSize {
		return false, "Image too large"
	}
	return true, ""
}

// ResizeToJPEG decodes the uploaded bytes, scales them to exactly
// width x height (cover semantics: scale so both dimensions are filled, then
// center-crop), and re-encodes as JPEG.
func ResizeToJPEG(data []byte, width, height uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	cropped := coverResize(img, width, height)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, cropped, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// SaveImage writes resized image bytes under the upload directory, creating
// the subdirectory if needed.
func SaveImage(uploadDir, subdir, filename string, data []byte) error {
	dir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0o644)
}

func coverResize(img image.Image, width, height uint) image.Image {
	bounds := img.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	if srcW == 0 || srcH == 0 {
		return img
	}

	scaleW := float64(width) / srcW
	scaleH := float64(height) / srcH
	scale := scaleW
	if scaleH > scaleW {
		scale = scaleH
	}

	scaled := resize.Resize(uint(srcW*scale+0.5), uint(srcH*scale+0.5), img, resize.Lanczos3)

	sb := scaled.Bounds()
	x0 := sb.Min.X + (sb.Dx()-int(width))/2
	y0 := sb.Min.Y + (sb.Dy()-int(height))/2
	crop := image.Rect(x0, y0, x0+int(width), y0+int(height))

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := scaled.(subImager); ok {
		return s.SubImage(crop)
	}
	return scaled
}
