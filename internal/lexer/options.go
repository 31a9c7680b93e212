package lexer

import (
	"fmt"

	"minic/internal/diag"
	"minic/internal/source"
)

// OverflowPolicy decides the value of an integer literal that does not fit IntBits.
type OverflowPolicy uint8

const (
	// OverflowSaturate clamps the value to the largest representable one.
	OverflowSaturate OverflowPolicy = iota
	// OverflowWrap keeps the value modulo 2^IntBits.
	OverflowWrap
)

func (p OverflowPolicy) String() string {
	if p == OverflowWrap {
		return "wrap"
	}
	return "saturate"
}

// ParseOverflowPolicy accepts "saturate", "wrap" and "" (saturate).
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "saturate":
		return OverflowSaturate, nil
	case "wrap":
		return OverflowWrap, nil
	}
	return OverflowSaturate, fmt.Errorf("unknown overflow policy %q (want saturate or wrap)", s)
}

const (
	// DefaultIntBits is the width of integer literals when Options.IntBits is zero.
	DefaultIntBits = 32
	// MaxIdentLength is the longest identifier accepted without LEX004.
	MaxIdentLength = 255
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	IntBits  uint8         // 1..64, 0 означает DefaultIntBits
	Overflow OverflowPolicy
	// MaxTokens stops lexing with LEX007 after that many tokens; 0 disables the limit.
	MaxTokens int
	// FailFast stops after the token that produced the first error.
	FailFast bool
}

func (o Options) intBits() uint8 {
	switch {
	case o.IntBits == 0:
		return DefaultIntBits
	case o.IntBits > 64:
		return 64
	}
	return o.IntBits
}

// MaxInt returns the largest literal value for the configured width.
func (o Options) MaxInt() uint64 {
	bits := o.intBits()
	if bits == 64 {
		return ^uint64(0)
	}
	return uint64(1)<<bits - 1
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(lx.reporter, code, sp, msg)
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportWarning(lx.reporter, code, sp, msg)
}
