package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// svgFallbackPx is used for an axis when the SVG viewBox has no size.
	svgFallbackPx = 1024
	// maxRasterDim caps rasterization output. viewBox values come from
	// untrusted input and a huge one would allocate a matching RGBA buffer.
	maxRasterDim = 8192
)

// Normalize re-encodes payloads the document container cannot embed (webp,
// avif, tiff and svg become PNG, animated gif keeps its first frame) and
// returns everything else untouched. The reference the payload was loaded
// from supplies an extension hint; without one the payload bytes themselves
// are examined.
func Normalize(data []byte, ref string) ([]byte, error) {
	hint := strings.TrimPrefix(strings.ToLower(path.Ext(ref)), ".")
	return normalize(data, hint)
}

// NormalizeFormat is Normalize for inline payloads that carry an explicit
// format name instead of a file name.
func NormalizeFormat(data []byte, format string) ([]byte, error) {
	return normalize(data, strings.ToLower(strings.TrimSpace(format)))
}

func normalize(data []byte, hint string) ([]byte, error) {
	switch hint {
	case "webp", "avif", "tiff", "tif":
		return reencodePNG(data)
	case "gif":
		// image.Decode stops after the first frame, which is the one
		// that ends up embedded.
		return reencodePNG(data)
	case "svg":
		return rasterizePNG(data)
	}

	// No usable hint, check the payload itself.
	switch {
	case isWebP(data), isAVIF(data), filetype.Is(data, "tif"):
		return reencodePNG(data)
	case isGIF(data):
		return reencodePNG(data)
	case isSVG(data):
		return rasterizePNG(data)
	}
	return data, nil
}

// reencodePNG decodes whatever registered format the data is in and writes
// it back as PNG.
func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image for conversion: %w", err)
	}

	var buf = new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode converted PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// rasterizePNG renders an SVG document onto a white background at its
// viewBox size and encodes the result as PNG.
func rasterizePNG(data []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to parse SVG: %w", err)
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = svgFallbackPx
	}
	if h <= 0 {
		h = svgFallbackPx
	}
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf = new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode rasterized SVG: %w", err)
	}
	return buf.Bytes(), nil
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP"))
}

// isAVIF checks for an ISO BMFF ftyp box with the avif brand.
func isAVIF(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) && bytes.Equal(data[8:12], []byte("avif"))
}

func isGIF(data []byte) bool {
	return len(data) >= 6 && (bytes.Equal(data[0:6], []byte("GIF87a")) || bytes.Equal(data[0:6], []byte("GIF89a")))
}

// isSVG sniffs for an XML document with an svg element near the start. SVG
// is text, there is no magic number to test.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<svg"))
}
