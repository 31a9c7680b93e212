package diagfmt

import "minic/internal/source"

// displayPath форматирует путь файла согласно режиму.
func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.FormatPath(mode.String(), "")
	}
}
