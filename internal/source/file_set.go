package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// ErrFileTooLarge is returned by Load when a file exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// FileSet manages a collection of source files and resolves spans to positions.
type FileSet struct {
	files   []File
	baseDir string // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
	}
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of files ever added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores already normalized bytes, builds the line index and hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	return id
}

// Normalize strips a BOM and rewrites CRLF to LF. Text that is not in
// Unicode NFC is kept byte for byte and only flagged with FileNotNFC.
// The returned flags describe what was found.
func Normalize(content []byte) ([]byte, FileFlags) {
	flags := FileFlags(0)
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !isNFC(content) {
		flags |= FileNotNFC
	}
	return content, flags
}

// Load reads a file from disk, normalizes it and calls Add.
// Files larger than maxSize bytes are rejected when maxSize > 0.
func (fileSet *FileSet) Load(path string, maxSize int64) (FileID, error) {
	if maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		if info.Size() > maxSize {
			return 0, fmt.Errorf("%s: %w (%d bytes, limit %d)", path, ErrFileTooLarge, info.Size(), maxSize)
		}
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Range resolves a span into full positions.
func (fileSet *FileSet) Range(span Span) Range {
	return fileSet.files[span.File].Range(span)
}

// Len returns the size of the buffer in bytes.
func (f *File) Len() uint32 {
	return uint32(len(f.Content)) // #nosec G115 -- checked in Add
}

// EndSpan returns the empty span positioned at the end of the buffer.
func (f *File) EndSpan() Span {
	n := f.Len()
	return Span{File: f.ID, Start: n, End: n}
}

// Position resolves a byte offset. Offsets past the end are clamped.
func (f *File) Position(off uint32) Position {
	if n := f.Len(); off > n {
		off = n
	}
	lc := toLineCol(f.LineIdx, off)
	return Position{Line: lc.Line, Col: lc.Col, Offset: off}
}

// Range resolves both ends of a span.
func (f *File) Range(span Span) Range {
	return Range{Start: f.Position(span.Start), End: f.Position(span.End)}
}

// Slice returns the text covered by span.
func (f *File) Slice(span Span) string {
	n := f.Len()
	start, end := min(span.Start, n), min(span.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines; an empty file has one line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by content length
}

// GetLine возвращает строку с заданным номером (1-based) без завершающего '\n'.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > f.LineCount() {
		return ""
	}

	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := f.Len()
	if lineNum-1 < uint32(len(f.LineIdx)) { // #nosec G115 -- bounded by content length
		end = f.LineIdx[lineNum-1]
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
// baseDir: базовая директория для относительных путей (игнорируется для других режимов)
func (f *File) FormatPath(mode, baseDir string) string {
	if f.Flags&FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// Auto: если путь короткий или относительный - как есть, иначе basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
