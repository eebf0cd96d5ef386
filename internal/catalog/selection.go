package catalog

import (
	"strings"

	"bugbear/internal/engine"
)

// Selection narrows the reported codes with code prefixes, flake8 style.
// Select replaces the default set, ExtendSelect adds to it and Ignore
// removes from it; the longest matching prefix decides.
type Selection struct {
	Select       []string `json:"select,omitempty" yaml:"select,omitempty"`
	ExtendSelect []string `json:"extendSelect,omitempty" yaml:"extend_select,omitempty"`
	Ignore       []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// longestPrefix returns the length of the longest entry of prefixes that
// code starts with, or 0.
func longestPrefix(code string, prefixes []string) int {
	best := 0
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p != "" && strings.HasPrefix(code, p) && len(p) > best {
			best = len(p)
		}
	}
	return best
}

// Enabled reports whether code should be reported. Codes that are off by
// default need an explicit prefix of at least two characters, so `B` alone
// never turns on the optional B9xx checks.
func (c *Catalog) Enabled(s Selection, code engine.Code) bool {
	defaultOn := true
	if e, ok := c.Lookup(code); ok {
		defaultOn = e.DefaultEnabled
	}

	selected := max(longestPrefix(string(code), s.Select), longestPrefix(string(code), s.ExtendSelect))
	if !defaultOn && selected < 2 {
		return false
	}
	if selected == 0 {
		if len(s.Select) > 0 || !defaultOn {
			return false
		}
		selected = 1
	}
	return selected > longestPrefix(string(code), s.Ignore)
}

// EnabledCodes returns the catalogue codes that s lets through.
func (c *Catalog) EnabledCodes(s Selection) []engine.Code {
	var out []engine.Code
	for _, e := range c.entries {
		if c.Enabled(s, e.Code) {
			out = append(out, e.Code)
		}
	}
	return out
}
