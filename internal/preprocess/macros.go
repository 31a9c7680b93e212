package preprocess

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidMacroName is returned by MacroTable.Define for names that are not identifiers.
var ErrInvalidMacroName = errors.New("invalid macro name")

// MacroTable хранит object-like макросы: имя -> текст подстановки.
type MacroTable struct {
	defs map[string]string
}

func NewMacroTable() *MacroTable {
	return &MacroTable{defs: make(map[string]string)}
}

// Define adds or replaces a macro.
func (t *MacroTable) Define(name, value string) error {
	if !ValidMacroName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidMacroName, name)
	}
	t.defs[name] = value
	return nil
}

func (t *MacroTable) Undefine(name string) {
	delete(t.defs, name)
}

func (t *MacroTable) IsDefined(name string) bool {
	_, ok := t.defs[name]
	return ok
}

func (t *MacroTable) Lookup(name string) (string, bool) {
	v, ok := t.defs[name]
	return v, ok
}

func (t *MacroTable) Len() int {
	return len(t.defs)
}

// Names returns macro names in sorted order.
func (t *MacroTable) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidMacroName reports whether name is an ASCII identifier.
func ValidMacroName(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isWordByte(name[i]) {
			return false
		}
	}
	return true
}

// ParseDefine разбирает аргумент -D: NAME или NAME=VALUE (значение по умолчанию "1").
func ParseDefine(arg string) (name, value string, err error) {
	name, value, found := strings.Cut(arg, "=")
	if !found {
		value = "1"
	}
	name = strings.TrimSpace(name)
	if !ValidMacroName(name) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidMacroName, name)
	}
	return name, value, nil
}

func isWordByte(b byte) bool {
	return b == '_' || isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// expander подставляет макросы рекурсивно с защитой от циклов и от экспоненциального роста.
type expander struct {
	macros *MacroTable
	stack  map[string]bool
	limit  int

	count     int    // выполненные подстановки
	recursive string // первый макрос, упёршийся в цикл
	overflow  bool   // результат превысил limit
}

func newExpander(macros *MacroTable, limit int) *expander {
	return &expander{macros: macros, stack: make(map[string]bool), limit: limit}
}

// reset clears per-word findings before a top-level word is expanded.
func (e *expander) reset() {
	e.recursive = ""
	e.overflow = false
}

// expandWord appends the expansion of a defined macro name to dst.
func (e *expander) expandWord(dst []byte, word string) []byte {
	value, ok := e.macros.Lookup(word)
	switch {
	case !ok:
		return append(dst, word...)
	case e.stack[word]:
		if e.recursive == "" {
			e.recursive = word
		}
		return append(dst, word...)
	case len(dst) > e.limit:
		e.overflow = true
		return append(dst, word...)
	}
	e.stack[word] = true
	e.count++
	dst = e.expand(dst, []byte(value))
	delete(e.stack, word)
	return dst
}

// expand copies src to dst, replacing macro names outside string and char literals.
func (e *expander) expand(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		b := src[i]
		switch {
		case b == '"' || b == '\'':
			j := skipQuoted(src, i)
			dst = append(dst, src[i:j]...)
			i = j
		case isWordByte(b):
			j := i
			for j < len(src) && isWordByte(src[j]) {
				j++
			}
			if isDigit(b) {
				dst = append(dst, src[i:j]...)
			} else {
				dst = e.expandWord(dst, string(src[i:j]))
			}
			i = j
		default:
			dst = append(dst, b)
			i++
		}
	}
	return dst
}

// skipQuoted returns the offset just past the literal starting at src[i].
// Незакрытый литерал тянется до конца строки.
func skipQuoted(src []byte, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case quote:
			return j + 1
		}
		j++
	}
	return len(src)
}
