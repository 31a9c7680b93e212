package lexer

import (
	"fmt"

	"minic/internal/diag"
	"minic/internal/token"
)

// Поддержка: 0, 123 (IntLit) и 1.5 (FloatLit).
// "12." без дробной части — LEX003 и Invalid токен на весь срез.
// Переполнение целого — предупреждение LEX100, значение по Options.Overflow.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump() // '.'
		if !isDec(lx.cursor.Peek()) {
			tok := lx.tokenFrom(token.Invalid, start)
			lx.errLex(diag.LexMalformedNumber, tok.Span,
				fmt.Sprintf("malformed number %q: expected digit after '.'", tok.Text)).
				WithFix("write the number as " + tok.Text + "0").
				Emit()
			return tok
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.tokenFrom(token.FloatLit, start)
	}

	tok := lx.tokenFrom(token.IntLit, start)
	tok.Value = lx.intValue(tok)
	return tok
}

// intValue parses the decimal digits of tok and applies the overflow policy.
func (lx *Lexer) intValue(tok token.Token) uint64 {
	limit := lx.opts.MaxInt()
	var exact, wrapped uint64
	overflow := false
	for i := 0; i < len(tok.Text); i++ {
		d := uint64(tok.Text[i] - '0')
		// wrapped считается по модулю 2^64, маска ниже сводит к 2^bits
		wrapped = wrapped*10 + d
		if overflow {
			continue
		}
		if exact > (limit-d)/10 {
			overflow = true
			continue
		}
		exact = exact*10 + d
	}
	if !overflow {
		return exact
	}

	value := limit
	if lx.opts.Overflow == OverflowWrap {
		value = wrapped & limit
	}
	lx.warnLex(diag.LexIntOverflow, tok.Span,
		fmt.Sprintf("integer literal %s overflows %d-bit unsigned range, %s to %d",
			tok.Text, lx.opts.intBits(), policyVerb(lx.opts.Overflow), value)).
		Emit()
	return value
}

func policyVerb(p OverflowPolicy) string {
	if p == OverflowWrap {
		return "wrapped"
	}
	return "saturated"
}
