package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"bugbear/internal/checker"
)

// ColorEnabled resolves a --color value. auto colours only terminals and
// honours NO_COLOR.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

type palette struct {
	path, code, caret, failure *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		code:    color.New(color.FgRed, color.Bold),
		caret:   color.New(color.FgCyan),
		failure: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.path, p.code, p.caret, p.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// writeHuman prints one line per diagnostic, flake8 style:
// path:line:col: CODE message, with a 1-based column.
func writeHuman(w io.Writer, results []checker.FileResult, opts Options) error {
	cat := opts.catalog()
	pal := newPalette(opts.Color)
	bw := bufio.NewWriter(w)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(bw, pal.failure.Sprint(r.Err.Error()))
			continue
		}
		var lines []string
		if opts.ShowSource && len(r.Diagnostics) > 0 {
			lines = splitLines(r.Source)
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintf(bw, "%s:%d:%d: %s %s\n",
				pal.path.Sprint(r.Path), d.Line, d.Column+1, pal.code.Sprint(string(d.Code)), cat.Render(d))
			if idx := int(d.Line) - 1; opts.ShowSource && idx >= 0 && idx < len(lines) {
				line := lines[idx]
				fmt.Fprintf(bw, "    %s\n    %s%s\n", line, caretPadding(line, int(d.Column)), pal.caret.Sprint("^"))
			}
		}
	}

	s := checker.Summarize(results)
	if s.Diagnostics > 0 || s.Errors > 0 {
		fmt.Fprintf(bw, "\nFound %s in %s", plural(s.Diagnostics, "diagnostic"), plural(s.Files, "file"))
		if s.Errors > 0 {
			fmt.Fprintf(bw, " (%s could not be checked)", plural(s.Errors, "file"))
		}
		fmt.Fprintln(bw, ".")
	}
	return bw.Flush()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func splitLines(source []byte) []string {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	return strings.Split(string(source), "\n")
}

// caretPadding returns the whitespace that puts a caret under the byte
// offset col of line. Tabs are kept so the caret lines up however the
// terminal expands them; wide runes take two cells.
func caretPadding(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}
	var b strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
