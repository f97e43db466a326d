package hwpx

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Image is an embeddable raster picture: raw encoded bytes, the sniffed
// format and the physical size derived from the pixel dimensions. Dimensions
// come in pairs, when either axis cannot be parsed none are reported and the
// layout falls back to a default size.
type Image struct {
	Data     []byte
	Format   ImageFormat
	WidthMM  int
	HeightMM int
	HasDims  bool
}

// DetectImageFormat sniffs the encoded format from magic bytes. First match
// wins, anything unrecognized reports false.
func DetectImageFormat(data []byte) (ImageFormat, bool) {
	if len(data) < 8 {
		return ImageFormatPng, false
	}
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return ImageFormatPng, true
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return ImageFormatJpeg, true
	case bytes.HasPrefix(data, []byte("GIF")):
		return ImageFormatGif, true
	case bytes.HasPrefix(data, []byte("BM")):
		return ImageFormatBmp, true
	default:
		return ImageFormatPng, false
	}
}

// ImageFromBytes sniffs the format and measures the picture. It reports
// false when the bytes are not one of the natively supported formats.
func ImageFromBytes(data []byte) (*Image, bool) {
	format, ok := DetectImageFormat(data)
	if !ok {
		return nil, false
	}
	img := &Image{Data: data, Format: format}

	var w, h int
	switch format {
	case ImageFormatPng:
		w, h, ok = pngDimensions(data)
	case ImageFormatJpeg:
		w, h, ok = jpegDimensions(data)
	case ImageFormatGif:
		w, h, ok = gifDimensions(data)
	case ImageFormatBmp:
		w, h, ok = bmpDimensions(data)
	}
	if ok && w > 0 && h > 0 {
		img.WidthMM = pixelsToMM(w)
		img.HeightMM = pixelsToMM(h)
		img.HasDims = true
	}
	return img, true
}

// pixelsToMM converts at the 96 DPI reference, never below 1mm.
func pixelsToMM(px int) int {
	mm := int(math.Round(float64(px) * 25.4 / 96.0))
	if mm < 1 {
		mm = 1
	}
	return mm
}

// pngDimensions reads the IHDR chunk: 8-byte signature, 4-byte chunk
// length, 4-byte "IHDR", then big-endian width and height.
func pngDimensions(data []byte) (int, int, bool) {
	if len(data) < 24 {
		return 0, 0, false
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	return int(w), int(h), true
}

// jpegDimensions walks the segment stream looking for a baseline or
// progressive start-of-frame marker and reads the size out of it. Other
// segments are skipped over by their declared length.
func jpegDimensions(data []byte) (int, int, bool) {
	i := 2
	for i+1 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xC0 || marker == 0xC2 {
			if i+9 < len(data) {
				h := binary.BigEndian.Uint16(data[i+5 : i+7])
				w := binary.BigEndian.Uint16(data[i+7 : i+9])
				return int(w), int(h), true
			}
			return 0, 0, false
		}
		if i+3 < len(data) {
			segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
			i += 2 + segLen
		} else {
			break
		}
	}
	return 0, 0, false
}

// gifDimensions reads the little-endian logical screen size after the
// 6-byte signature.
func gifDimensions(data []byte) (int, int, bool) {
	if len(data) < 10 {
		return 0, 0, false
	}
	w := binary.LittleEndian.Uint16(data[6:8])
	h := binary.LittleEndian.Uint16(data[8:10])
	return int(w), int(h), true
}

// bmpDimensions reads the signed little-endian size from the info header.
// Negative height marks a top-down bitmap and is normalized away.
func bmpDimensions(data []byte) (int, int, bool) {
	if len(data) < 26 {
		return 0, 0, false
	}
	w := int(int32(binary.LittleEndian.Uint32(data[18:22])))
	h := int(int32(binary.LittleEndian.Uint32(data[22:26])))
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	return w, h, true
}
