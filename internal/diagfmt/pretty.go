package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"keel/internal/diag"
	"keel/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	pathColor = color.New(color.Bold)
	noteColor = color.New(color.FgBlue)
)

// Pretty renders the bag for humans. Callers sort the bag first. Each
// diagnostic prints as
//
//	<path>:<line>:<col>: <SEVERITY> [<ID>]: <message>
//
// followed by the offending source line with a caret underline sized to
// the span, then the notes. Spans with no file (synthetic diagnostics,
// timings) skip the location prefix.
func Pretty(w io.Writer, bag *diag.Bag, fileSet *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fileSet, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fileSet *source.FileSet, opts PrettyOpts) {
	loc, line, caret := resolve(d.Primary, fileSet, opts)
	if loc != "" {
		fprintColored(w, opts.Color, pathColor, "%s: ", loc)
	}
	fprintColored(w, opts.Color, severityColor(d.Severity), "%s", d.Severity)
	fmt.Fprintf(w, " [%s]: %s\n", d.Code.ID(), d.Message)

	if line != "" {
		fmt.Fprintf(w, "  %s\n", truncate(line, opts.Width))
		if caret != "" {
			fprintColored(w, opts.Color, severityColor(d.Severity), "  %s\n", caret)
		}
	}

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		noteLoc, noteLine, noteCaret := resolve(note.Span, fileSet, opts)
		fprintColored(w, opts.Color, noteColor, "  note")
		if noteLoc != "" {
			fmt.Fprintf(w, " (%s)", noteLoc)
		}
		fmt.Fprintf(w, ": %s\n", note.Msg)
		if noteLine != "" {
			fmt.Fprintf(w, "    %s\n", truncate(noteLine, opts.Width))
			if noteCaret != "" {
				fprintColored(w, opts.Color, noteColor, "    %s\n", noteCaret)
			}
		}
	}
}

// resolve returns the rendered location, the source line, and the caret
// underline for a span, all empty when the span carries no position.
func resolve(span source.Span, fileSet *source.FileSet, opts PrettyOpts) (loc, line, caret string) {
	if fileSet == nil || span.Empty() {
		return "", "", ""
	}
	file := fileSet.Get(span.File)
	if file == nil {
		return "", "", ""
	}
	start, end := fileSet.Resolve(span)
	path := file.FormatPath(opts.PathMode.String(), fileSet.BaseDir())
	loc = fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)

	line = file.GetLine(start.Line)
	if line == "" {
		return loc, "", ""
	}

	// Caret width follows the rendered width of the underlined text, so
	// wide runes get wide underlines.
	prefix := sliceCols(line, 0, start.Col-1)
	pad := runewidth.StringWidth(prefix)
	spanCols := end.Col - start.Col
	if end.Line != start.Line || spanCols == 0 {
		spanCols = 1
	}
	marked := sliceCols(line, start.Col-1, start.Col-1+spanCols)
	width := runewidth.StringWidth(marked)
	if width == 0 {
		width = 1
	}
	caret = strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
	return loc, line, caret
}

// sliceCols cuts a rune range out of line, clamped to its length.
func sliceCols(line string, from, to uint32) string {
	runes := []rune(line)
	lineLen := uint32(len(runes))
	if from > lineLen {
		from = lineLen
	}
	if to > lineLen {
		to = lineLen
	}
	if from >= to {
		return ""
	}
	return string(runes[from:to])
}

func truncate(line string, width uint8) string {
	if width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

func fprintColored(w io.Writer, enabled bool, c *color.Color, format string, args ...any) {
	if enabled {
		c.Fprintf(w, format, args...)
		return
	}
	fmt.Fprintf(w, format, args...)
}
