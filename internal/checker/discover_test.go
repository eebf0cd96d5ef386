package checker

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"bugbear/internal/engine"
	"bugbear/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":                  "",
		"pkg/b.py":              "",
		"pkg/stubs.pyi":         "",
		"pkg/readme.md":         "",
		".venv/lib/site.py":     "",
		"pkg/generated/gen.py":  "",
		"pkg/__pycache__/c.py":  "",
		"other/notes.txt":       "",
		"other/deep/script.py":  "",
		"other/deep/skip_me.py": "",
	})

	files, failed := Discover([]string{root}, []string{".venv", "__pycache__", "pkg/generated", "skip_*.py"})
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.py", "other/deep/script.py", "pkg/b.py", "pkg/stubs.pyi"}
	if !slices.Equal(rel, want) {
		t.Errorf("Discover() = %v\nwant %v", rel, want)
	}
}

func TestDiscoverExplicitFilesAndMissingPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"script": "x = 1\n"})

	explicit := filepath.Join(root, "script")
	missing := filepath.Join(root, "missing.py")
	files, failed := Discover([]string{explicit, explicit, missing}, []string{"script"})

	if !slices.Equal(files, []string{explicit}) {
		t.Errorf("files = %v, want only the explicit file once", files)
	}
	if len(failed) != 1 || failed[0].Path != missing {
		t.Fatalf("failed = %+v, want the missing path", failed)
	}
	if !errors.Is(failed[0].Err, errors.FileUnreadable) {
		t.Errorf("error code = %q, want %q", errors.CodeOf(failed[0].Err), errors.FileUnreadable)
	}
}

func TestSummarize(t *testing.T) {
	results := []FileResult{
		{Path: "a.py", Diagnostics: []engine.Diagnostic{{Code: "B002"}, {Code: "B018"}}},
		{Path: "b.py", Cached: true},
		{Path: "c.py", Err: errors.New(errors.ParseFailed, "bad", nil)},
	}
	got := Summarize(results)
	want := Summary{Files: 3, Diagnostics: 2, Errors: 1, Cached: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestFilterAppliesSelection(t *testing.T) {
	c := New(Options{})
	ds := []engine.Diagnostic{{Code: "B023"}, {Code: "B909"}, {Code: "B018"}}

	got := c.filter(ds)
	if len(got) != 2 || got[0].Code != "B023" || got[1].Code != "B018" {
		t.Errorf("default filter = %+v, want B909 dropped", got)
	}

	c.opts.Selection.ExtendSelect = []string{"B9"}
	c.opts.Selection.Ignore = []string{"B018"}
	got = c.filter(ds)
	if len(got) != 2 || got[0].Code != "B023" || got[1].Code != "B909" {
		t.Errorf("custom filter = %+v", got)
	}
}
