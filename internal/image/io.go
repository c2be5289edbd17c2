// Package image provides decoding, encoding, resampling and scratch-buffer
// pooling for the editing layers.
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register JPEG
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WEBP
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrTooLarge is returned when the encoded data or the decoded
	// dimensions exceed the configured limits.
	ErrTooLarge = errors.New("image: exceeds size limits")

	// ErrZeroDimension is returned when an image has no pixels.
	ErrZeroDimension = errors.New("image: zero width or height")
)

// allowedFormats mirrors the formats the background-removal service accepts.
var allowedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
	"bmp":  true,
	"tiff": true,
}

// Limits bounds accepted input. Zero fields are unlimited.
type Limits struct {
	MaxBytes     int
	MaxDimension int
}

// DefaultLimits matches the upload limits of the processing service:
// 10 MiB of encoded data and 4096 pixels per side.
var DefaultLimits = Limits{
	MaxBytes:     10 << 20,
	MaxDimension: 4096,
}

const dataURLPrefix = "data:"

// Decode decodes raw image bytes or a base64 data URI
// ("data:image/png;base64,..."). The dimensions are checked against lim
// before the pixels are decoded. It returns the image and its format name.
func Decode(ctx context.Context, data []byte, lim Limits) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}

	if bytes.HasPrefix(data, []byte(dataURLPrefix)) {
		raw, err := decodeDataURL(string(data))
		if err != nil {
			return nil, "", err
		}
		data = raw
	}
	if lim.MaxBytes > 0 && len(data) > lim.MaxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), lim.MaxBytes)
	}

	// The PNG decoder rejects a zero-sized header as a format error, so read
	// the IHDR dimensions first.
	if w, h, ok := pngSize(data); ok && (w == 0 || h == 0) {
		return nil, "png", fmt.Errorf("%w: %dx%d", ErrZeroDimension, w, h)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("image: decode config: %w", err)
	}
	if !allowedFormats[format] {
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%w: %dx%d", ErrZeroDimension, cfg.Width, cfg.Height)
	}
	if lim.MaxDimension > 0 && (cfg.Width > lim.MaxDimension || cfg.Height > lim.MaxDimension) {
		return nil, format, fmt.Errorf("%w: %dx%d (max %d)", ErrTooLarge, cfg.Width, cfg.Height, lim.MaxDimension)
	}

	if err := ctx.Err(); err != nil {
		return nil, format, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("image: decode %s: %w", format, err)
	}
	return img, format, nil
}

const pngSignature = "\x89PNG\r\n\x1a\n"

// pngSize reads the width and height from a PNG IHDR chunk.
func pngSize(data []byte) (w, h uint32, ok bool) {
	if len(data) < 24 || string(data[:8]) != pngSignature || string(data[12:16]) != "IHDR" {
		return 0, 0, false
	}
	return binary.BigEndian.Uint32(data[16:20]), binary.BigEndian.Uint32(data[20:24]), true
}

// decodeDataURL extracts the payload of a data URI. Only base64 payloads are
// accepted; the media type is ignored since content sniffing decides the codec.
func decodeDataURL(s string) ([]byte, error) {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedFormat)
	}
	meta := s[len(dataURLPrefix):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", ErrUnsupportedFormat)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s[comma+1:]))
	if err != nil {
		return nil, fmt.Errorf("image: data URL payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyData
	}
	return raw, nil
}

// ToNRGBA returns a straight-alpha copy of img with its origin at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], src.Pix[so:so+b.Dx()*4])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("image: encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// PNGDataURL wraps PNG bytes in a base64 data URI.
func PNGDataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
