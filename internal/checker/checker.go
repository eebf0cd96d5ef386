// Package checker runs the analysis engine over files on disk: it discovers
// Python sources, parses and analyses them in parallel, consults the result
// cache and applies the code selection.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bugbear/internal/catalog"
	"bugbear/internal/engine"
	"bugbear/internal/errors"
	"bugbear/internal/parse"
	"bugbear/internal/rules"
	"bugbear/internal/slogutil"
	"bugbear/internal/storage"
	"bugbear/internal/version"
)

// Options configures a Checker.
type Options struct {
	// Jobs bounds the files analysed at once; 0 means GOMAXPROCS.
	Jobs      int
	Exclude   []string
	Selection catalog.Selection
	Settings  engine.Settings
	// Cache is optional; nil disables result caching.
	Cache  *storage.Results
	Logger *slog.Logger
}

// FileResult is the outcome for one file. Err is set when the file could
// not be read or parsed; Diagnostics are sorted by position.
type FileResult struct {
	Path        string              `json:"path" yaml:"path"`
	Diagnostics []engine.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Err         error               `json:"-" yaml:"-"`
	Cached      bool                `json:"-" yaml:"-"`
	Source      []byte              `json:"-" yaml:"-"`
}

// Checker is safe for concurrent use.
type Checker struct {
	engine      *engine.Engine
	catalog     *catalog.Catalog
	opts        Options
	logger      *slog.Logger
	fingerprint string
}

// New creates a checker running every registered rule.
func New(opts Options) *Checker {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	reg := rules.Registry()
	eng := engine.New(reg, engine.WithLogger(logger), engine.WithSettings(opts.Settings))

	codes := make([]string, 0, len(reg.Codes()))
	for _, c := range reg.Codes() {
		codes = append(codes, string(c))
	}
	fingerprint := version.Fingerprint(
		strings.Join(codes, ","),
		strings.Join(opts.Settings.ExtendImmutableCalls, ","),
		strings.Join(opts.Settings.ClassmethodDecorators, ","),
	)

	return &Checker{
		engine:      eng,
		catalog:     catalog.Default(),
		opts:        opts,
		logger:      logger,
		fingerprint: fingerprint,
	}
}

// Check analyses every Python file under paths. Per-file failures are
// reported in the results; the returned error is only set when ctx ends
// before all files were checked.
func (c *Checker) Check(ctx context.Context, paths []string) ([]FileResult, error) {
	start := time.Now()
	files, failed := Discover(paths, c.opts.Exclude)

	jobs := c.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = c.CheckFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results = append(results, failed...)
	slices.SortFunc(results, func(a, b FileResult) int { return strings.Compare(a.Path, b.Path) })

	c.logger.Info("Check complete",
		"files", len(files),
		"failed", len(failed),
		"duration", time.Since(start),
	)
	return results, nil
}

// CheckFile reads and analyses one file.
func (c *Checker) CheckFile(ctx context.Context, path string) FileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return FileResult{
			Path: path,
			Err:  errors.New(errors.FileUnreadable, "cannot read file", err).WithPath(path),
		}
	}
	return c.CheckSource(ctx, path, source)
}

// CheckSource analyses source as the content of path.
func (c *Checker) CheckSource(ctx context.Context, path string, source []byte) FileResult {
	res := FileResult{Path: path, Source: source}

	key := ""
	if c.opts.Cache != nil {
		key = storage.Key(c.fingerprint, source)
		ds, ok, err := c.opts.Cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Result cache unavailable", "path", path, "error", err)
		} else if ok {
			res.Diagnostics = c.filter(ds)
			res.Cached = true
			c.logger.Debug("Cache hit", "path", path, "diagnostics", len(res.Diagnostics))
			return res
		}
	}

	ds, err := c.analyze(ctx, path, source)
	if err != nil {
		res.Err = err
		return res
	}
	if key != "" {
		if err := c.opts.Cache.Put(ctx, key, path, ds); err != nil {
			c.logger.Warn("Result cache unavailable", "path", path, "error", err)
		}
	}
	res.Diagnostics = c.filter(ds)
	c.logger.Debug("Checked file", "path", path, "diagnostics", len(res.Diagnostics))
	return res
}

// analyze parses and runs the engine. An internal invariant violation in the
// engine is turned into an INTERNAL_ERROR for this file only.
func (c *Checker) analyze(ctx context.Context, path string, source []byte) (ds []engine.Diagnostic, err error) {
	tree, err := parse.NewParser().Parse(ctx, path, source)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			if lintErr, ok := r.(*errors.LintError); ok {
				err = lintErr.WithPath(path)
				return
			}
			err = errors.New(errors.InternalError, fmt.Sprint(r), nil).WithPath(path)
		}
	}()
	ds = c.engine.Run(tree)
	engine.Sort(ds)
	return ds, nil
}

func (c *Checker) filter(ds []engine.Diagnostic) []engine.Diagnostic {
	out := make([]engine.Diagnostic, 0, len(ds))
	for _, d := range ds {
		if c.catalog.Enabled(c.opts.Selection, d.Code) {
			out = append(out, d)
		}
	}
	return out
}

// Summary counts diagnostics and failed files across results.
type Summary struct {
	Files       int `json:"files" yaml:"files"`
	Diagnostics int `json:"diagnostics" yaml:"diagnostics"`
	Errors      int `json:"errors" yaml:"errors"`
	Cached      int `json:"cached" yaml:"cached"`
}

// Summarize totals results.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Files++
		s.Diagnostics += len(r.Diagnostics)
		if r.Err != nil {
			s.Errors++
		}
		if r.Cached {
			s.Cached++
		}
	}
	return s
}
