package hwpx

// Raster formats the package embeds natively, everything else has to be
// re-encoded before it reaches the writer.
// ENUM(png, jpeg, gif, bmp)
type ImageFormat int

// Ext returns the archive entry extension for the format.
func (x ImageFormat) Ext() string {
	switch x {
	case ImageFormatJpeg:
		return "jpg"
	case ImageFormatGif:
		return "gif"
	case ImageFormatBmp:
		return "bmp"
	default:
		return "png"
	}
}

// MediaType returns the manifest media type. Hanword writes "image/jpg"
// rather than the registered "image/jpeg".
func (x ImageFormat) MediaType() string {
	return "image/" + x.Ext()
}

// ItemFormat returns the format tag used by binary data items.
func (x ImageFormat) ItemFormat() string {
	switch x {
	case ImageFormatJpeg:
		return "JPG"
	case ImageFormatGif:
		return "GIF"
	case ImageFormatBmp:
		return "BMP"
	default:
		return "PNG"
	}
}
