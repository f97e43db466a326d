package config

// Specification of pages a header or footer line applies to.
// ENUM(both, odd, even)
type ApplyTo int

// PageType returns the attribute value the package markup expects.
func (a ApplyTo) PageType() string {
	switch a {
	case ApplyToOdd:
		return "ODD"
	case ApplyToEven:
		return "EVEN"
	default:
		return "BOTH"
	}
}

// Specification of automatic page numbering style.
// ENUM(digit, romanSmall, romanCapital, latinSmall, latinCapital)
type PageNumFmt int

// FormatType returns the attribute value the package markup expects.
func (f PageNumFmt) FormatType() string {
	switch f {
	case PageNumFmtRomanSmall:
		return "ROMAN_SMALL"
	case PageNumFmtRomanCapital:
		return "ROMAN_CAPITAL"
	case PageNumFmtLatinSmall:
		return "LATIN_SMALL"
	case PageNumFmtLatinCapital:
		return "LATIN_CAPITAL"
	default:
		return "DIGIT"
	}
}
