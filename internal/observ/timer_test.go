package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.Add("lex", 2*time.Millisecond, "9 tokens")
	tm.Add("check", 3*time.Millisecond, "")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].Name != "lex" || r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "9 tokens" {
		t.Errorf("phase 0 = %+v", r.Phases[0])
	}
	if r.TotalMS != 5 {
		t.Errorf("total = %v", r.TotalMS)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "lex", "// 9 tokens", "total", "5.00 ms"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerTrack(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("preprocess")
	done("2 macros")
	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Note != "2 macros" || r.Phases[0].DurationMS < 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestTimerNilAndBadIndex(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer report = %+v", r)
	}

	tm = NewTimer()
	tm.End(5, "ignored")
	tm.End(-1, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("file")("")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Errorf("phases = %d", n)
	}
}
