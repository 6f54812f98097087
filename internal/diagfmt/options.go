package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures human-readable diagnostic output.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Width truncates source preview lines; 0 leaves them unbounded.
	Width uint8
}

// JSONOpts configures JSON diagnostic output.
type JSONOpts struct {
	IncludePositions bool // add line/col resolved from the file set
	PathMode         PathMode
	Max              int // truncate output, not the bag itself
	IncludeNotes     bool
}
