package report

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"bugbear/internal/checker"
	"bugbear/internal/engine"
	"bugbear/internal/errors"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Enabled bool   `json:"enabled"`
	Level   string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level,omitempty"`
	Message             SARIFMessage      `json:"message"`
	Locations           []SARIFLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// SARIFRegion identifies a region within a file. Columns are 1-based.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	Machine                    string              `json:"machine,omitempty"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification reports a file the tool could not check.
type SARIFNotification struct {
	Level      string          `json:"level"`
	Message    SARIFMessage    `json:"message"`
	Descriptor *SARIFReference `json:"descriptor,omitempty"`
	Locations  []SARIFLocation `json:"locations,omitempty"`
}

// SARIFReference points at a descriptor by id.
type SARIFReference struct {
	ID string `json:"id"`
}

// NewSARIF converts results into a single-run SARIF report. Only rules that
// produced a result are listed in the driver.
func NewSARIF(results []checker.FileResult, opts Options) SARIFReport {
	cat := opts.catalog()

	var codes []engine.Code
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if !slices.Contains(codes, d.Code) {
				codes = append(codes, d.Code)
			}
		}
	}
	slices.Sort(codes)

	ruleIndex := make(map[engine.Code]int, len(codes))
	rules := make([]SARIFRule, 0, len(codes))
	for _, code := range codes {
		rule := SARIFRule{
			ID:                   string(code),
			DefaultConfiguration: &SARIFRuleConfiguration{Enabled: true, Level: "warning"},
		}
		if e, ok := cat.Lookup(code); ok {
			rule.Name = e.Name
			rule.ShortDescription = &SARIFMessage{Text: e.Message}
			rule.DefaultConfiguration.Enabled = e.DefaultEnabled
		}
		ruleIndex[code] = len(rules)
		rules = append(rules, rule)
	}

	sarifResults := make([]SARIFResult, 0)
	var notes []SARIFNotification
	for _, r := range results {
		uri := filepath.ToSlash(r.Path)
		if r.Err != nil {
			code := errors.CodeOf(r.Err)
			if code == "" {
				code = errors.InternalError
			}
			notes = append(notes, SARIFNotification{
				Level:      "error",
				Message:    SARIFMessage{Text: r.Err.Error()},
				Descriptor: &SARIFReference{ID: string(code)},
				Locations: []SARIFLocation{{
					PhysicalLocation: &SARIFPhysicalLocation{ArtifactLocation: &SARIFArtifactLocation{URI: uri}},
				}},
			})
			continue
		}
		for _, d := range r.Diagnostics {
			sarifResults = append(sarifResults, SARIFResult{
				RuleID:    string(d.Code),
				RuleIndex: ruleIndex[d.Code],
				Level:     "warning",
				Message:   SARIFMessage{Text: cat.Render(d)},
				Locations: []SARIFLocation{{
					PhysicalLocation: &SARIFPhysicalLocation{
						ArtifactLocation: &SARIFArtifactLocation{URI: uri},
						Region: &SARIFRegion{
							StartLine:   int(d.Line),
							StartColumn: int(d.Column) + 1,
						},
					},
				}},
				PartialFingerprints: map[string]string{
					"bugbear/v1": fingerprint(uri, d),
				},
			})
		}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return SARIFReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:            "bugbear",
				Version:         opts.ToolVersion,
				SemanticVersion: opts.ToolVersion,
				Rules:           rules,
			}},
			AutomationDetails: &SARIFAutomationDetails{GUID: runID},
			Results:           sarifResults,
			Invocations: []SARIFInvocation{{
				ExecutionSuccessful:        len(notes) == 0,
				Machine:                    runtime.GOOS + "/" + runtime.GOARCH,
				ToolExecutionNotifications: notes,
			}},
		}},
	}
}

// fingerprint is stable across runs for the same finding at the same place.
func fingerprint(uri string, d engine.Diagnostic) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%s", uri, d.Line, d.Column, d.Code)))
	return hex.EncodeToString(sum[:8])
}
