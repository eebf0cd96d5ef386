//go:build cgo

package checker

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"bugbear/internal/errors"
	"bugbear/internal/storage"
)

const loopSource = `fns = []
for x in range(3):
    fns.append(lambda: x)
`

func TestCheckReportsAndFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"loop.py":   loopSource,
		"clean.py":  "x = 1\n",
		"broken.py": "def f(:\n",
	})

	results, err := New(Options{Jobs: 2}).Check(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byName := make(map[string]FileResult)
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}

	if !errors.Is(byName["broken.py"].Err, errors.ParseFailed) {
		t.Errorf("broken.py error = %v, want PARSE_FAILED", byName["broken.py"].Err)
	}
	if ds := byName["clean.py"].Diagnostics; len(ds) != 0 {
		t.Errorf("clean.py diagnostics = %+v", ds)
	}
	ds := byName["loop.py"].Diagnostics
	if len(ds) != 1 || ds[0].Code != "B023" || ds[0].Line != 3 || ds[0].Column != 23 {
		t.Errorf("loop.py diagnostics = %+v, want one B023 at 3:23", ds)
	}
}

func TestCheckUsesCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"loop.py": loopSource})

	db, err := storage.Open(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	c := New(Options{Cache: storage.NewResults(db)})
	ctx := context.Background()

	first, err := c.Check(ctx, []string{root})
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Check(ctx, []string{root})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached {
		t.Error("first run should not hit the cache")
	}
	if !second[0].Cached {
		t.Error("second run should hit the cache")
	}
	if len(second[0].Diagnostics) != len(first[0].Diagnostics) {
		t.Errorf("cached diagnostics = %+v, want %+v", second[0].Diagnostics, first[0].Diagnostics)
	}
}

func TestCheckCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Check(ctx, []string{root}); err == nil {
		t.Error("Check() on a cancelled context should fail")
	}
}
