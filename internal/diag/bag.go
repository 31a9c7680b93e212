package diag

import (
	"slices"
	"sort"
)

// Bag is the per-pipeline diagnostic collector. Items keep insertion order,
// which equals detection order during a left-to-right pass.
type Bag struct {
	items   []Diagnostic
	max     int // 0 - без лимита
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит);
// такие диагностики учитываются в Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Record is Add without the result.
func (b *Bag) Record(d Diagnostic) {
	b.Add(d)
}

func (b *Bag) Cap() int {
	return b.max
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount counts diagnostics with SevError.
func (b *Bag) ErrorCount() int {
	return b.count(SevError)
}

// WarningCount counts diagnostics with SevWarning.
func (b *Bag) WarningCount() int {
	return b.count(SevWarning)
}

func (b *Bag) count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик в порядке добавления.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// IntoSorted returns a copy ordered by file and span start.
// Equal starts keep insertion order. Nothing is merged or deduplicated.
func (b *Bag) IntoSorted() []Diagnostic {
	out := slices.Clone(b.items)
	sortByStart(out)
	return out
}

func sortByStart(items []Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Primary, items[j].Primary
		if di.File != dj.File {
			return di.File < dj.File
		}
		return di.Start < dj.Start
	})
}
