package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/tools/txtar"
)

func TestParseExpectations(t *testing.T) {
	src := []byte(`import os  # Bad idea: not an expectation
for x in y:
    fns.append(lambda: x)  # B023: 23, "x"
try:
    pass
except (A, A):  # B014: 0, "(A, A)", "A", "", "" # B013: 0, "A"
    pass
d = {"#": 1}
`)
	got, err := ParseExpectations(src)
	if err != nil {
		t.Fatalf("ParseExpectations() error = %v", err)
	}
	want := []Expectation{
		{Code: "B023", Line: 3, Column: 23, Args: []string{"x"}},
		{Code: "B014", Line: 6, Column: 0, Args: []string{"(A, A)", "A", "", ""}},
		{Code: "B013", Line: 6, Column: 0, Args: []string{"A"}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d expectations %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i].String() != want[i].String() || !slices.Equal(got[i].Args, want[i].Args) {
			t.Errorf("expectation %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseExpectationsErrors(t *testing.T) {
	tests := []string{
		"x = 1  # B023: col\n",
		"x = 1  # B023: 4, x\n",
	}
	for _, src := range tests {
		if _, err := ParseExpectations([]byte(src)); err == nil {
			t.Errorf("ParseExpectations(%q) should fail", src)
		}
	}
}

func TestSortExpectations(t *testing.T) {
	es := []Expectation{
		{Code: "B018", Line: 4, Column: 2},
		{Code: "B002", Line: 1, Column: 8},
		{Code: "B023", Line: 4, Column: 2},
		{Code: "B002", Line: 1, Column: 4},
	}
	SortExpectations(es)
	var got []string
	for _, e := range es {
		got = append(got, e.String())
	}
	want := []string{"1:4 B002", "1:8 B002", "4:2 B018", "4:2 B023"}
	if !slices.Equal(got, want) {
		t.Errorf("SortExpectations() = %v, want %v", got, want)
	}
}

func TestCompareArchiveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.txtar")
	a := &txtar.Archive{
		Comment: []byte("report output\n"),
		Files:   []txtar.File{{Name: "out.txt", Data: []byte("hello\n")}},
	}
	if err := os.WriteFile(path, txtar.Format(a), 0o644); err != nil {
		t.Fatal(err)
	}

	CompareArchiveFile(t, path, "out.txt", []byte("hello\r\n"))

	if got := ArchiveFile(t, LoadArchive(t, path), "out.txt"); string(got) != "hello\n" {
		t.Errorf("ArchiveFile() = %q", got)
	}
}

func TestNormalizeOutput(t *testing.T) {
	root := filepath.Join(string(filepath.Separator)+"tmp", "run1")
	out := []byte(filepath.Join(root, "a.py") + ":1:1: B002\r\n")
	got := string(NormalizeOutput(out, root))
	if got != "$ROOT/a.py:1:1: B002\n" {
		t.Errorf("NormalizeOutput() = %q", got)
	}

	if got := NormalizeFilePath(filepath.Join(root, "pkg", "b.py"), root); got != "pkg/b.py" {
		t.Errorf("NormalizeFilePath() = %q", got)
	}
	if got := NormalizeFilePath("/elsewhere/c.py", root); got != "/elsewhere/c.py" {
		t.Errorf("NormalizeFilePath(outside) = %q", got)
	}
}

func TestFixturesExist(t *testing.T) {
	if len(Fixtures(t)) == 0 {
		t.Error("no fixtures under testdata/fixtures")
	}
}
