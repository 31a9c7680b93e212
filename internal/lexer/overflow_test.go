package lexer_test

import (
	"strings"
	"testing"

	"minic/internal/diag"
	"minic/internal/lexer"
	"minic/internal/token"
)

func TestIntegerOverflowPolicy(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		bits   uint8
		policy lexer.OverflowPolicy
		want   uint64
		warn   bool
	}{
		{"fits32", "4294967295", 0, lexer.OverflowSaturate, 4294967295, false},
		{"saturate32", "4294967296", 0, lexer.OverflowSaturate, 4294967295, true},
		{"wrap32", "4294967296", 0, lexer.OverflowWrap, 0, true},
		{"wrap32 large", "99999999999", 32, lexer.OverflowWrap, 1215752191, true},
		{"saturate8", "256", 8, lexer.OverflowSaturate, 255, true},
		{"wrap8", "300", 8, lexer.OverflowWrap, 44, true},
		{"fits64", "18446744073709551615", 64, lexer.OverflowSaturate, 18446744073709551615, false},
		{"saturate64", "18446744073709551616", 64, lexer.OverflowSaturate, 18446744073709551615, true},
		{"wrap64", "18446744073709551616", 64, lexer.OverflowWrap, 0, true},
		{"leading zeros", "0000000000000000000000042", 8, lexer.OverflowSaturate, 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, rep, _ := lexAll(t, tt.input, lexer.Options{IntBits: tt.bits, Overflow: tt.policy})
			if toks[0].Kind != token.IntLit {
				t.Fatalf("kind = %v", toks[0].Kind)
			}
			if toks[0].Value != tt.want {
				t.Errorf("value = %d, want %d", toks[0].Value, tt.want)
			}
			if !tt.warn {
				if len(rep.diagnostics) != 0 {
					t.Fatalf("unexpected diagnostics %v", rep.codes())
				}
				return
			}
			if len(rep.diagnostics) != 1 {
				t.Fatalf("expected one warning, got %v", rep.codes())
			}
			d := rep.diagnostics[0]
			if d.Code != diag.LexIntOverflow || d.Severity != diag.SevWarning {
				t.Fatalf("got %s %s", d.Code.ID(), d.Severity)
			}
			if !strings.Contains(d.Message, tt.policy.String()[:4]) {
				t.Errorf("message %q does not mention the policy", d.Message)
			}
		})
	}
}

func TestOverflowIsNotAnError(t *testing.T) {
	fs := newFile(t, "int big = 99999999999;")
	bag := diag.NewBag(0)
	lexer.Tokenize(fs, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("errors=%d warnings=%d", bag.ErrorCount(), bag.WarningCount())
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	for in, want := range map[string]lexer.OverflowPolicy{
		"":         lexer.OverflowSaturate,
		"saturate": lexer.OverflowSaturate,
		"wrap":     lexer.OverflowWrap,
	} {
		got, err := lexer.ParseOverflowPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lexer.ParseOverflowPolicy("clamp"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestMaxInt(t *testing.T) {
	if got := (lexer.Options{}).MaxInt(); got != 1<<32-1 {
		t.Errorf("default MaxInt = %d", got)
	}
	if got := (lexer.Options{IntBits: 16}).MaxInt(); got != 65535 {
		t.Errorf("16-bit MaxInt = %d", got)
	}
	if got := (lexer.Options{IntBits: 64}).MaxInt(); got != ^uint64(0) {
		t.Errorf("64-bit MaxInt = %d", got)
	}
}
