package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// ErrInvalidImage means the upload is not an image we can decode.
var ErrInvalidImage = errors.New("invalid image")

// Result is a processed upload ready to be stored.
type Result struct {
	Body        *bytes.Buffer
	ContentType string
	Ext         string
}

// passthrough formats are stored as uploaded.
var passthrough = map[string]string{
	".gif": "image/gif",
	".svg": "image/svg+xml",
}

// ProcessImage re-encodes JPEG, PNG and WebP uploads, which strips metadata
// and normalizes quality. GIF and SVG are stored unchanged.
func ProcessImage(file *multipart.FileHeader) (Result, error) {
	src, err := file.Open()
	if err != nil {
		return Result{}, fmt.Errorf("could not open file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ct, ok := passthrough[ext]; ok {
		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, src); err != nil {
			return Result{}, fmt.Errorf("could not read file: %w", err)
		}
		return Result{Body: buf, ContentType: ct, Ext: ext}, nil
	}

	return Encode(src)
}

// Encode decodes r and re-encodes it in the same format.
func Encode(r io.Reader) (Result, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	buf := new(bytes.Buffer)
	var ext string

	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
		ext = ".jpg"
	case "png":
		err = png.Encode(buf, img)
		ext = ".png"
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 85})
		ext = ".webp"
	default:
		return Result{}, fmt.Errorf("%w: unsupported format %s", ErrInvalidImage, format)
	}

	if err != nil {
		return Result{}, fmt.Errorf("could not encode image: %w", err)
	}

	return Result{Body: buf, ContentType: "image/" + format, Ext: ext}, nil
}
