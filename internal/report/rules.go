package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"bugbear/internal/catalog"
)

// messageWidth truncates rule messages in the human listing.
const messageWidth = 72

// RuleListing is one row of the rules listing.
type RuleListing struct {
	catalog.Entry `json:",inline" yaml:",inline"`
	Enabled       bool `json:"enabled" yaml:"enabled"`
}

// WriteRules lists the catalogue and whether sel enables each code. SARIF
// is not a listing format and falls back to JSON.
func WriteRules(w io.Writer, cat *catalog.Catalog, sel catalog.Selection, format OutputFormat) error {
	if cat == nil {
		cat = catalog.Default()
	}
	entries := cat.All()
	rows := make([]RuleListing, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, RuleListing{Entry: e, Enabled: cat.Enabled(sel, e.Code)})
	}

	switch format {
	case FormatJSON, FormatSARIF:
		return writeJSON(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tENABLED\tMESSAGE")
	for _, r := range rows {
		enabled := "no"
		if r.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Code, r.Name, enabled, runewidth.Truncate(r.Message, messageWidth, "..."))
	}
	return tw.Flush()
}
