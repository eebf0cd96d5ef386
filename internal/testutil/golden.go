package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// updateGolden controls whether golden members should be rewritten.
// Use: go test ./... -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareArchiveFile compares got against the member name of the txtar
// archive at path, failing with a diff on mismatch. With -update the member
// is replaced (or appended) and the archive rewritten.
func CompareArchiveFile(t *testing.T, path, name string, got []byte) {
	t.Helper()

	got = NormalizeNewlines(got)
	a := LoadArchive(t, path)

	if *updateGolden {
		replaced := false
		for i := range a.Files {
			if a.Files[i].Name == name {
				a.Files[i].Data = got
				replaced = true
			}
		}
		if !replaced {
			a.Files = append(a.Files, txtar.File{Name: name, Data: got})
		}
		if err := os.WriteFile(path, txtar.Format(a), 0o644); err != nil {
			t.Fatalf("Failed to write golden archive: %v", err)
		}
		t.Logf("Updated golden: %s [%s]", path, name)
		return
	}

	var expected []byte
	found := false
	for _, f := range a.Files {
		if f.Name == name {
			expected, found = f.Data, true
		}
	}
	if !found {
		t.Fatalf("Golden member %q missing from %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
			name, path, got, t.Name())
	}

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(string(expected), string(got), path+" ["+name+"]")
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			name, diff, t.Name())
	}
}

// unifiedDiff produces a simple line-by-line diff between two strings.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	for i := 0; i < max(len(expectedLines), len(gotLines)); i++ {
		var expLine, gotLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}
		if expLine == gotLine {
			continue
		}
		fmt.Fprintf(&buf, "@@ line %d @@\n", i+1)
		if i < len(expectedLines) {
			buf.WriteString("-" + expLine + "\n")
		}
		if i < len(gotLines) {
			buf.WriteString("+" + gotLine + "\n")
		}
	}
	return buf.String()
}
