package media

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47}

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func createTestGIF(t *testing.T, frames ...color.RGBA) []byte {
	t.Helper()

	g := &gif.GIF{}
	for _, c := range frames {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{c, color.RGBA{R: 255, G: 255, B: 255, A: 255}})
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 10)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("failed to encode test GIF: %v", err)
	}
	return buf.Bytes()
}

func createTestTIFF(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test TIFF: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizePassthrough(t *testing.T) {
	pngData := createTestPNG(t, 4, 4)
	jpegData := createTestJPEG(t, 4, 4)

	tests := []struct {
		name string
		data []byte
		ref  string
	}{
		{"png by extension", pngData, "image.png"},
		{"png without extension", pngData, "image_no_ext"},
		{"jpeg jpg extension", jpegData, "photo.jpg"},
		{"jpeg jpeg extension", jpegData, "photo.jpeg"},
		{"jpeg without extension", jpegData, "photo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Normalize(tc.data, tc.ref)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !bytes.Equal(out, tc.data) {
				t.Error("expected payload to pass through unchanged")
			}
		})
	}
}

func TestNormalizeUnknownPassthrough(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}
	out, err := Normalize(data, "blob.bin")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("unrecognized payload should pass through unchanged")
	}
}

func TestNormalizeGIFByExtension(t *testing.T) {
	data := createTestGIF(t, color.RGBA{R: 255, A: 255})

	out, err := Normalize(data, "animation.gif")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected PNG output for GIF input")
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode converted image: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v, want 4x4", img.Bounds())
	}
}

func TestNormalizeGIFByMagic(t *testing.T) {
	data := createTestGIF(t, color.RGBA{G: 255, A: 255})

	out, err := Normalize(data, "image_no_ext")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected magic byte detection to convert GIF without an extension")
	}
}

func TestNormalizeGIFKeepsFirstFrame(t *testing.T) {
	data := createTestGIF(t, color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255})

	out, err := Normalize(data, "animation.gif")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode converted image: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel (0,0) = %d,%d,%d, want the red first frame", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeTIFF(t *testing.T) {
	data := createTestTIFF(t, 6, 3)

	out, err := Normalize(data, "scan.tiff")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected PNG output for TIFF input")
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode converted image: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v, want 6x3", img.Bounds())
	}

	// Same payload without a hint goes through the filetype gate.
	out, err = Normalize(data, "scan_no_ext")
	if err != nil {
		t.Fatalf("Normalize failed without extension: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected magic byte detection to convert TIFF without an extension")
	}
}

func TestNormalizeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0h10v10H0z"/></svg>`)

	out, err := Normalize(svg, "logo.svg")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected PNG output for SVG input")
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode rasterized SVG: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds = %v, want the 10x10 viewBox", img.Bounds())
	}
	r, g, b, _ := img.At(5, 5).RGBA()
	if r>>8 > 30 || g>>8 > 30 || b>>8 > 30 {
		t.Errorf("pixel (5,5) = %d,%d,%d, want the black filled path", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeSVGByMagic(t *testing.T) {
	svg := []byte("<?xml version=\"1.0\"?>\n<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 8 8\"><path d=\"M0 0h8v8H0z\"/></svg>")

	out, err := Normalize(svg, "image_no_ext")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatal("expected sniffing to catch SVG without an extension")
	}
}

func TestNormalizeFormatHint(t *testing.T) {
	gifData := createTestGIF(t, color.RGBA{R: 255, A: 255})
	pngData := createTestPNG(t, 4, 4)

	out, err := NormalizeFormat(gifData, "GIF")
	if err != nil {
		t.Fatalf("NormalizeFormat failed: %v", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Error("expected case-insensitive format hint to convert GIF")
	}

	out, err = NormalizeFormat(pngData, "png")
	if err != nil {
		t.Fatalf("NormalizeFormat failed: %v", err)
	}
	if !bytes.Equal(out, pngData) {
		t.Error("expected PNG to pass through unchanged")
	}

	out, err = NormalizeFormat(pngData, "")
	if err != nil {
		t.Fatalf("NormalizeFormat failed: %v", err)
	}
	if !bytes.Equal(out, pngData) {
		t.Error("expected payload without a format hint to pass through unchanged")
	}
}

func TestNormalizeBrokenPayload(t *testing.T) {
	if _, err := Normalize([]byte("not an image at all"), "broken.webp"); err == nil {
		t.Error("expected an error for undecodable payload with a conversion hint")
	}
	if _, err := Normalize([]byte("<svg but broken"), "broken.svg"); err == nil {
		t.Error("expected an error for unparsable SVG")
	}
}

func TestMagicDetection(t *testing.T) {
	webp := make([]byte, 12)
	copy(webp[0:4], "RIFF")
	copy(webp[8:12], "WEBP")

	avif := make([]byte, 12)
	copy(avif[4:8], "ftyp")
	copy(avif[8:12], "avif")

	tests := []struct {
		name string
		data []byte
		webp bool
		avif bool
		gif  bool
	}{
		{"webp riff header", webp, true, false, false},
		{"avif ftyp box", avif, false, true, false},
		{"gif89a", []byte("GIF89a\x00\x00\x00\x00\x00\x00"), false, false, true},
		{"gif87a", []byte("GIF87a\x00\x00\x00\x00\x00\x00"), false, false, true},
		{"png signature", append(append([]byte{}, pngSignature...), 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0), false, false, false},
		{"jpeg soi", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}, false, false, false},
		{"zeroes", make([]byte, 12), false, false, false},
		{"short", []byte("GIF"), false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isWebP(tc.data); got != tc.webp {
				t.Errorf("isWebP = %v, want %v", got, tc.webp)
			}
			if got := isAVIF(tc.data); got != tc.avif {
				t.Errorf("isAVIF = %v, want %v", got, tc.avif)
			}
			if got := isGIF(tc.data); got != tc.gif {
				t.Errorf("isGIF = %v, want %v", got, tc.gif)
			}
		})
	}
}

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"bare svg element", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), true},
		{"xml prolog", []byte("<?xml version=\"1.0\"?>\n<svg/>"), true},
		{"leading whitespace", []byte("\n\t <svg/>"), true},
		{"html", []byte("<html><body></body></html>"), false},
		{"binary", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, false},
		{"empty", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSVG(tc.data); got != tc.want {
				t.Errorf("isSVG = %v, want %v", got, tc.want)
			}
		})
	}
}
