package diagfmt

import (
	"io"

	"minic/internal/diag"
	"minic/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Unit is one file's diagnostics together with the FileSet that resolves them.
type Unit struct {
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0), один run.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	return SarifUnits(w, []Unit{{Bag: bag, FileSet: fs}}, meta)
}

// SarifUnits writes one run covering several files; rules are shared.
func SarifUnits(w io.Writer, units []Unit, meta SarifRunMeta) error {
	var results []sarifResult
	seen := make(map[diag.Code]bool)
	var rules []sarifRule
	success := true

	for _, u := range units {
		if u.Bag == nil {
			continue
		}
		if u.Bag.HasErrors() {
			success = false
		}
		for _, d := range u.Bag.IntoSorted() {
			if !seen[d.Code] {
				seen[d.Code] = true
				rules = append(rules, sarifRule{ID: d.Code.ID(), ShortDescription: sarifMessage{Text: d.Code.Title()}})
			}
			results = append(results, sarifResultFor(d, u.FileSet))
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: rules}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: success}}
	}
	return encodeJSON(w, sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}

func sarifResultFor(d diag.Diagnostic, fs *source.FileSet) sarifResult {
	r := fs.Get(d.Primary.File).Range(d.Primary)
	return sarifResult{
		RuleID:  d.Code.ID(),
		Level:   sarifLevel(d.Severity),
		Message: sarifMessage{Text: d.Message},
		Locations: []sarifLocation{{
			PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: displayPath(fs, d.Primary.File, PathModeRelative)},
				Region: sarifRegion{
					StartLine:   r.Start.Line,
					StartColumn: r.Start.Col,
					EndLine:     r.End.Line,
					EndColumn:   r.End.Col,
					ByteOffset:  d.Primary.Start,
					ByteLength:  d.Primary.Len(),
				},
			},
		}},
	}
}
