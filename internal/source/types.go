package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (stdin, tests, preprocessor output).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF marks a file whose CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
	// FileNotNFC marks a file whose text is not in Unicode NFC. The bytes
	// are kept as read; identifiers that look alike may still differ.
	FileNotNFC
)

// File is an immutable source buffer: the text plus its line index.
// LineIdx holds the offsets of every '\n' in Content, built once in Add.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах
}

// Position is a resolved location: 1-based line and column plus the byte offset.
type Position struct {
	Line   uint32
	Col    uint32
	Offset uint32
}

// Range is a resolved Span, end exclusive.
type Range struct {
	Start Position
	End   Position
}
