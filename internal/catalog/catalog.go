// Package catalog holds the human-readable messages for every diagnostic
// code and decides which codes a run reports.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"bugbear/internal/engine"
)

//go:embed catalog.toml
var catalogTOML []byte

// Entry describes one diagnostic code.
type Entry struct {
	Code           engine.Code `toml:"code" json:"code" yaml:"code"`
	Name           string      `toml:"name" json:"name" yaml:"name"`
	Message        string      `toml:"message" json:"message" yaml:"message"`
	DefaultEnabled bool        `toml:"default_enabled" json:"defaultEnabled" yaml:"default_enabled"`
}

// Catalog is an immutable set of entries keyed by code.
type Catalog struct {
	entries []Entry
	byCode  map[engine.Code]int
}

var codePattern = regexp.MustCompile(`^B\d{3}$`)

// Load decodes a catalogue document.
func Load(data []byte) (*Catalog, error) {
	var doc struct {
		Rules []Entry `toml:"rule"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{byCode: make(map[engine.Code]int, len(doc.Rules))}
	for _, e := range doc.Rules {
		if !codePattern.MatchString(string(e.Code)) {
			return nil, fmt.Errorf("catalog entry %q: invalid code", e.Code)
		}
		if e.Message == "" {
			return nil, fmt.Errorf("catalog entry %s: empty message", e.Code)
		}
		if _, dup := c.byCode[e.Code]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate code", e.Code)
		}
		c.byCode[e.Code] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	slices.SortFunc(c.entries, func(a, b Entry) int { return strings.Compare(string(a.Code), string(b.Code)) })
	for i, e := range c.entries {
		c.byCode[e.Code] = i
	}
	return c, nil
}

// Default returns the embedded catalogue.
var Default = sync.OnceValue(func() *Catalog {
	c, err := Load(catalogTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
})

// Lookup returns the entry for code.
func (c *Catalog) Lookup(code engine.Code) (Entry, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// All returns the entries ordered by code.
func (c *Catalog) All() []Entry {
	return slices.Clone(c.entries)
}

// Render formats the message of d with its arguments. Unknown codes render
// the arguments alone.
func (c *Catalog) Render(d engine.Diagnostic) string {
	e, ok := c.Lookup(d.Code)
	if !ok {
		return strings.Join(d.Args, ", ")
	}
	return Format(e.Message, d.Args...)
}
