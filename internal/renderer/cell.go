package renderer

// Cell is one glyph of the output grid: a short UTF-8 glyph plus packed
// 24-bit foreground/background colors.
type Cell struct {
	Glyph string
	FG    uint32
	BG    uint32
}

// Frame is a fully rendered grid plus its pre-baked terminal byte string.
type Frame struct {
	Cols, Rows     int
	HalfBlock      bool
	PTS            float64
	Cells          []Cell
	TerminalString []byte
}
