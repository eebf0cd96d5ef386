// Package testutil provides testing utilities for fixture and golden tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Expectation is one diagnostic a fixture expects. Column is 0-based.
type Expectation struct {
	Code   string
	Line   uint32
	Column uint32
	Args   []string
}

func (e Expectation) String() string {
	s := fmt.Sprintf("%d:%d %s", e.Line, e.Column, e.Code)
	if len(e.Args) > 0 {
		s += " " + strings.Join(e.Args, ", ")
	}
	return s
}

// ParseExpectations reads expectation comments from Python source. A line
// may carry several:
//
//	for x in y: fns.append(lambda: x)  # B023: 31, "x"
//	except (A, A): pass  # B014: 0, "(A, A)", "A", "", ""
//
// Each comment names the code, the column and the quoted arguments.
func ParseExpectations(src []byte) ([]Expectation, error) {
	var out []Expectation
	for i, line := range strings.Split(string(src), "\n") {
		parts := strings.Split(line, "#")
		for _, part := range parts[1:] {
			part = strings.TrimSpace(part)
			if !isExpectation(part) {
				continue
			}
			e, err := parseExpectation(part)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			e.Line = uint32(i + 1)
			out = append(out, e)
		}
	}
	return out, nil
}

func isExpectation(s string) bool {
	if len(s) < 5 || s[0] != 'B' || s[4] != ':' {
		return false
	}
	for _, c := range s[1:4] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseExpectation(s string) (Expectation, error) {
	code, rest, _ := strings.Cut(s, ":")
	e := Expectation{Code: code}

	rest = strings.TrimSpace(rest)
	colText, rest, _ := strings.Cut(rest, ",")
	col, err := strconv.ParseUint(strings.TrimSpace(colText), 10, 32)
	if err != nil {
		return Expectation{}, fmt.Errorf("%s: bad column: %w", code, err)
	}
	e.Column = uint32(col)

	for rest = strings.TrimSpace(rest); rest != ""; {
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return Expectation{}, fmt.Errorf("%s: bad argument %q", code, rest)
		}
		arg, _ := strconv.Unquote(quoted)
		e.Args = append(e.Args, arg)
		rest = strings.TrimSpace(rest[len(quoted):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ","))
	}
	return e, nil
}

// SortExpectations orders by position then code.
func SortExpectations(es []Expectation) {
	slices.SortFunc(es, func(a, b Expectation) int {
		if a.Line != b.Line {
			return int(a.Line) - int(b.Line)
		}
		if a.Column != b.Column {
			return int(a.Column) - int(b.Column)
		}
		return strings.Compare(a.Code, b.Code)
	})
}

// LoadArchive parses a txtar archive, failing the test on error.
func LoadArchive(t *testing.T, path string) *txtar.Archive {
	t.Helper()

	a, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to read archive: %v", err)
	}
	return a
}

// ArchiveFile returns the named member of a, failing the test if absent.
func ArchiveFile(t *testing.T, a *txtar.Archive, name string) []byte {
	t.Helper()

	for _, f := range a.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("Archive has no file %q", name)
	return nil
}

// FixturesRoot returns the absolute path to testdata/fixtures/ at the
// project root.
func FixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	root := filepath.Join(projectRoot, "testdata", "fixtures")
	if _, err := os.Stat(root); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", root)
	}
	return root
}

// Fixtures returns the .txtar archives under FixturesRoot, sorted.
func Fixtures(t *testing.T) []string {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(FixturesRoot(t), "*.txtar"))
	if err != nil {
		t.Fatalf("Failed to list fixtures: %v", err)
	}
	slices.Sort(paths)
	return paths
}
