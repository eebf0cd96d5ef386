// Package report renders check results for people and for tools.
package report

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"bugbear/internal/catalog"
	"bugbear/internal/checker"
	"bugbear/internal/errors"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatSARIF OutputFormat = "sarif"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatSARIF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Options controls rendering.
type Options struct {
	Format     OutputFormat
	Color      bool
	ShowSource bool
	// Catalog renders messages; nil uses the embedded catalogue.
	Catalog *catalog.Catalog
	// ToolVersion is recorded in machine-readable output.
	ToolVersion string
	// RunID is the SARIF automation guid; empty generates a new one.
	RunID string
}

func (o Options) catalog() *catalog.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return catalog.Default()
}

// Document is the machine-readable form of a run.
type Document struct {
	Version string          `json:"version" yaml:"version"`
	Files   []FileDocument  `json:"files" yaml:"files"`
	Summary checker.Summary `json:"summary" yaml:"summary"`
}

// FileDocument holds the findings or the failure of one file.
type FileDocument struct {
	Path        string    `json:"path" yaml:"path"`
	Diagnostics []Finding `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Error       *Failure  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Finding is a diagnostic with its rendered message. Column is 0-based.
type Finding struct {
	Code    string   `json:"code" yaml:"code"`
	Line    uint32   `json:"line" yaml:"line"`
	Column  uint32   `json:"column" yaml:"column"`
	Message string   `json:"message" yaml:"message"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Failure describes why a file produced no findings.
type Failure struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// NewDocument converts results into a Document.
func NewDocument(results []checker.FileResult, opts Options) Document {
	cat := opts.catalog()
	doc := Document{
		Version: opts.ToolVersion,
		Files:   make([]FileDocument, 0, len(results)),
		Summary: checker.Summarize(results),
	}
	for _, r := range results {
		fd := FileDocument{Path: r.Path}
		if r.Err != nil {
			code := string(errors.CodeOf(r.Err))
			if code == "" {
				code = string(errors.InternalError)
			}
			fd.Error = &Failure{Code: code, Message: r.Err.Error()}
		}
		for _, d := range r.Diagnostics {
			fd.Diagnostics = append(fd.Diagnostics, Finding{
				Code:    string(d.Code),
				Line:    d.Line,
				Column:  d.Column,
				Message: cat.Render(d),
				Args:    d.Args,
			})
		}
		doc.Files = append(doc.Files, fd)
	}
	return doc
}

// Write renders results to w in opts.Format.
func Write(w io.Writer, results []checker.FileResult, opts Options) error {
	switch opts.Format {
	case FormatHuman, "":
		return writeHuman(w, results, opts)
	case FormatJSON:
		return writeJSON(w, NewDocument(results, opts))
	case FormatYAML:
		return writeYAML(w, NewDocument(results, opts))
	case FormatSARIF:
		return writeJSON(w, NewSARIF(results, opts))
	default:
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// writeJSON emits indented JSON with map keys sorted.
func writeJSON(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
