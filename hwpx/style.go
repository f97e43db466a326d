package hwpx

// TextStyle describes character formatting for a run of text.
type TextStyle struct {
	FontSize      int // points, 0 falls back to the 10pt base size
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Color         uint32 // 0xRRGGBB
}

// StyledText pairs a text fragment with its formatting.
type StyledText struct {
	Text  string
	Style TextStyle
}

// Character property flags, the bit order is fixed by the file format.
const (
	shapeBold uint32 = 1 << iota
	shapeItalic
	shapeUnderline
	shapeStrike
)

// charShape is one immutable entry of the document's shape table,
// referenced from runs by its position.
type charShape struct {
	properties     uint32
	baseSize       int
	textColor      uint32
	underlineColor uint32
	shadowColor    uint32
}

func newCharShape(s TextStyle) charShape {
	var props uint32
	if s.Bold {
		props |= shapeBold
	}
	if s.Italic {
		props |= shapeItalic
	}
	if s.Underline {
		props |= shapeUnderline
	}
	if s.Strikethrough {
		props |= shapeStrike
	}

	size := s.FontSize
	if size <= 0 {
		size = 10
	}

	return charShape{
		properties:     props,
		baseSize:       size * 100,
		textColor:      s.Color & 0xFFFFFF,
		underlineColor: s.Color & 0xFFFFFF,
		shadowColor:    0x808080,
	}
}

func (c charShape) bold() bool      { return c.properties&shapeBold != 0 }
func (c charShape) italic() bool    { return c.properties&shapeItalic != 0 }
func (c charShape) underline() bool { return c.properties&shapeUnderline != 0 }
func (c charShape) strike() bool    { return c.properties&shapeStrike != 0 }
