package catalog

import (
	"strings"
	"testing"

	"bugbear/internal/engine"
	"bugbear/internal/rules"
)

func TestDefaultCatalogCoversRegisteredCodes(t *testing.T) {
	c := Default()
	for _, code := range rules.Registry().Codes() {
		if _, ok := c.Lookup(code); !ok {
			t.Errorf("no catalog entry for %s", code)
		}
	}
	all := c.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Errorf("entries not sorted: %s before %s", all[i-1].Code, all[i].Code)
		}
	}
}

func TestLoadRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad code", "[[rule]]\ncode = \"X1\"\nmessage = \"m\"\n"},
		{"empty message", "[[rule]]\ncode = \"B001\"\n"},
		{"duplicate", "[[rule]]\ncode = \"B001\"\nmessage = \"m\"\n[[rule]]\ncode = \"B001\"\nmessage = \"m\"\n"},
		{"not toml", "[[rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		template string
		args     []string
		want     string
	}{
		{"useless {} expression", []string{"Tuple"}, "useless Tuple expression"},
		{"`except{1} {0}:`", []string{"ValueError", "*"}, "`except* ValueError:`"},
		{"loop variable {!r}.", []string{"x"}, "loop variable 'x'."},
		{"{!r}", []string{"it's"}, `"it's"`},
		{"{!r}", []string{`a'b"c`}, `'a\'b"c'`},
		{"{{literal}} {}", []string{"x"}, "{literal} x"},
		{"missing {3}", []string{"x"}, "missing "},
		{"unterminated {", nil, "unterminated {"},
	}
	for _, tt := range tests {
		if got := Format(tt.template, tt.args...); got != tt.want {
			t.Errorf("Format(%q, %v) = %q, want %q", tt.template, tt.args, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	c := Default()
	tests := []struct {
		diag engine.Diagnostic
		want string
	}{
		{
			engine.Diagnostic{Code: rules.LoopVariableCapture, Args: []string{"x"}},
			"Function definition does not bind loop variable 'x'.",
		},
		{
			engine.Diagnostic{Code: rules.RedundantExceptTypes, Args: []string{"OSError, IOError", " as err", "OSError", ""}},
			"Redundant exception types in `except (OSError, IOError) as err:`.  Write `except OSError as err:`, which catches exactly the same exceptions.",
		},
		{
			engine.Diagnostic{Code: rules.DuplicateExceptName, Args: []string{"ValueError", "*"}},
			"Exception `ValueError` has been caught multiple times. Only the first except* will be considered and all other except* catches can be safely removed.",
		},
		{
			engine.Diagnostic{Code: "B999", Args: []string{"a", "b"}},
			"a, b",
		},
	}
	for _, tt := range tests {
		if got := c.Render(tt.diag); got != tt.want {
			t.Errorf("Render(%s) = %q\nwant %q", tt.diag.Code, got, tt.want)
		}
	}
	if msg := c.Render(engine.Diagnostic{Code: rules.UnusedNotedException}); strings.Contains(msg, "{") {
		t.Errorf("B040 message kept a placeholder: %q", msg)
	}
}

func TestEnabled(t *testing.T) {
	c := Default()
	tests := []struct {
		name string
		sel  Selection
		code engine.Code
		want bool
	}{
		{"default on", Selection{}, "B023", true},
		{"default off", Selection{}, "B909", false},
		{"single letter does not enable optional", Selection{Select: []string{"B"}}, "B909", false},
		{"B9 enables optional", Selection{ExtendSelect: []string{"B9"}}, "B909", true},
		{"exact optional", Selection{Select: []string{"B909"}}, "B909", true},
		{"select narrows", Selection{Select: []string{"B909"}}, "B023", false},
		{"ignore prefix", Selection{Ignore: []string{"B0"}}, "B023", false},
		{"longer select wins over ignore", Selection{Select: []string{"B023"}, Ignore: []string{"B0"}}, "B023", true},
		{"longer ignore wins over select", Selection{Select: []string{"B0"}, Ignore: []string{"B023"}}, "B023", false},
		{"extend keeps defaults", Selection{ExtendSelect: []string{"B909"}}, "B002", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Enabled(tt.sel, tt.code); got != tt.want {
				t.Errorf("Enabled(%+v, %s) = %v, want %v", tt.sel, tt.code, got, tt.want)
			}
		})
	}
}

func TestEnabledCodes(t *testing.T) {
	codes := Default().EnabledCodes(Selection{})
	for _, code := range codes {
		if code == "B909" {
			t.Error("B909 enabled without selection")
		}
	}
	if len(codes) != len(Default().All())-1 {
		t.Errorf("got %d enabled codes, want all but B909", len(codes))
	}
}
