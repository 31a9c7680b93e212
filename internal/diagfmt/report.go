package diagfmt

import (
	"io"

	"minic/internal/diag"
	"minic/internal/source"
	"minic/internal/token"
)

// LexReport — полный JSON-отчёт команды lex.
type LexReport struct {
	Success     bool             `json:"success"`
	File        string           `json:"file"`
	NFC         bool             `json:"nfc"` // false: text is not in Unicode NFC
	Tokens      []TokenOutput    `json:"tokens"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Statistics  TokenStats       `json:"statistics"`
}

// BuildLexReport assembles the report; Success is false iff bag holds an error.
func BuildLexReport(file *source.File, tokens []token.Token, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) LexReport {
	return LexReport{
		Success:     !bag.HasErrors(),
		File:        displayPath(fs, file.ID, opts.PathMode),
		NFC:         file.Flags&source.FileNotNFC == 0,
		Tokens:      BuildTokens(tokens, fs),
		Diagnostics: BuildDiagnostics(bag.IntoSorted(), fs, opts),
		Statistics:  ComputeTokenStats(tokens, bag),
	}
}

// WriteLexReport сериализует LexReport в JSON.
func WriteLexReport(w io.Writer, report LexReport) error {
	return encodeJSON(w, report)
}
