package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items []*Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]*Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends d, respecting the bag's capacity. Returns false without
// adding when max has already been reached, so a pathological source file
// can never grow a compile's diagnostic list past its host-configured
// limit (§7).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, &d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic is at least SevError.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// HasWarnings reports whether any diagnostic is at least SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns how many diagnostics are at SevError, for a CLI
// summary line like "3 errors, 1 warning".
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

// WarningCount returns how many diagnostics are exactly SevWarning.
func (b *Bag) WarningCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the accumulated diagnostics. The
// backing array is shared with the Bag; callers must not mutate it.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge appends other's diagnostics, growing max if needed to hold them
// all.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (descending), then
// code (ascending), giving a stable, deterministic report order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup drops diagnostics that repeat an earlier one's Code+Primary span,
// keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
