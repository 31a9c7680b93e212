package diagfmt

import (
	"fmt"
	"io"

	"minic/internal/diag"
	"minic/internal/source"
)

// Short печатает по одной строке на диагностику:
// path:line:col: severity[CODE]: message
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.IntoSorted() {
		fmt.Fprintln(w, ShortLine(d, fs, mode))
	}
}

// ShortLine formats a single diagnostic the way Short does.
func ShortLine(d diag.Diagnostic, fs *source.FileSet, mode PathMode) string {
	pos := fs.Get(d.Primary.File).Position(d.Primary.Start)
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s",
		displayPath(fs, d.Primary.File, mode), pos.Line, pos.Col,
		d.Severity.Label(), d.Code.ID(), d.Message)
}
