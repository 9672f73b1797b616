package xl

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Color         string        // RRGGBB text color, empty for automatic
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone   UnderlineType = ""       // No underline (default)
	UnderlineSingle UnderlineType = "single" // Single underline
	UnderlineDouble UnderlineType = "double" // Double underline
)

// IsDefault returns true if the font uses all default properties.
func (f Font) IsDefault() bool {
	return f == Font{}
}

func (f Font) size() float64 {
	if f.Size <= 0 {
		return 11
	}
	return f.Size
}
