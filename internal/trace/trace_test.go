package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(strings.ToUpper(s))
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Errorf("ParseLevel(%q).String() = %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDebug, ScopeFile, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("LevelOff tracer must be disabled")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "lex", 0)
	span.WithExtra("tokens", "9").WithExtra("bytes", "26")
	span.End("ok")
	Begin(tr, ScopeFile, "file:a.mc", span.ID()).End("") // filtered at phase

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ lex") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "← lex (ok) {bytes=26, tokens=9}") {
		t.Errorf("end line = %q", lines[1])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "cache-hit", "a.mc", 7)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "file" || ev["name"] != "cache-hit" || ev["detail"] != "a.mc" {
		t.Errorf("event = %v", ev)
	}
	if ev["parent_id"] != float64(7) {
		t.Errorf("parent_id = %v", ev["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("order = %q, want cde", got)
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Errorf("sequence not increasing: %d, %d", snap[0].Seq, snap[2].Seq)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestRingKeepsEverythingAtErrorLevel(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	Begin(r, ScopeFile, "file:x.mc", 0).End("")
	if n := len(r.Snapshot()); n != 2 {
		t.Errorf("events = %d, want 2", n)
	}
}

func TestMultiTracer(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), NewRingTracer(4, LevelPhase))
	Begin(m, ScopeDriver, "check", 0).End("")
	if m.Ring() == nil || len(m.Ring().Snapshot()) != 2 {
		t.Fatal("ring did not receive events")
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("stream = %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := Start(ctx, ScopeDriver, "check")
	_, inner := Start(ctx, ScopePass, "lex")
	inner.End("")
	outer.End("")

	evs := r.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("events = %d", len(evs))
	}
	if evs[1].Name != "lex" || evs[1].ParentID != outer.ID() {
		t.Errorf("inner begin = %+v, want parent %d", evs[1], outer.ID())
	}
	if FromContext(context.Background()) != Nop {
		t.Error("empty context should yield Nop")
	}
}

func TestDisabledSpanStillMeasures(t *testing.T) {
	s := Begin(Nop, ScopePass, "lex", 0)
	if s.ID() != 0 {
		t.Errorf("nop span id = %d", s.ID())
	}
	if d := s.End(""); d < 0 {
		t.Errorf("duration = %v", d)
	}
}

func TestParseModeAndFormat(t *testing.T) {
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("expected error")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat = %v, %v", f, err)
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Error("expected error")
	}
}
