// Package selection implements the drag-to-select interaction as an explicit
// finite-state machine, independent of any rendering. It produces candidate
// intervals against a read-only snapshot of one resource's busy timeline and
// never mutates booking records; the authoritative overlap check still
// happens at admission time.
package selection

import (
	"sort"
	"time"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

// Interval is a half-open candidate range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Snapshot is the busy timeline the grid was rendered with: the non-cancelled
// intervals of a single resource, kept start-sorted for the live check.
type Snapshot struct {
	busy []Interval
}

func NewSnapshot(busy []Interval) *Snapshot {
	s := &Snapshot{busy: make([]Interval, len(busy))}
	copy(s.busy, busy)
	sort.Slice(s.busy, func(i, j int) bool {
		return s.busy[i].Start.Before(s.busy[j].Start)
	})
	return s
}

func (s *Snapshot) Conflicts(iv Interval) bool {
	// first busy interval ending after iv.Start is the only candidate set
	i := sort.Search(len(s.busy), func(i int) bool {
		return s.busy[i].End.After(iv.Start)
	})
	for ; i < len(s.busy); i++ {
		if !s.busy[i].Start.Before(iv.End) {
			break
		}
		if s.busy[i].Overlaps(iv) {
			return true
		}
	}
	return false
}

// Selector is the interaction state machine. Cells are identified by their
// granule-aligned start instant; pointer positions are snapped down to the
// granule before any state change.
type Selector struct {
	granule time.Duration
	snap    *Snapshot

	phase   Phase
	anchor  time.Time
	current time.Time
}

func NewSelector(granule time.Duration, snap *Snapshot) *Selector {
	return &Selector{
		granule: granule,
		snap:    snap,
		phase:   PhaseIdle,
	}
}

func (s *Selector) Phase() Phase {
	return s.phase
}

// PointerDown starts a drag anchored at the cell under the pointer. A press
// on an occupied cell never starts a drag.
func (s *Selector) PointerDown(at time.Time) bool {
	if s.phase != PhaseIdle {
		return false
	}

	cell := at.Truncate(s.granule)
	if s.snap.Conflicts(Interval{Start: cell, End: cell.Add(s.granule)}) {
		return false
	}

	s.phase = PhaseDragging
	s.anchor = cell
	s.current = cell
	return true
}

// PointerMove updates the current cell while dragging. Movement into a
// different calendar day is ignored; the selection stays within the anchor's
// day.
func (s *Selector) PointerMove(at time.Time) {
	if s.phase != PhaseDragging {
		return
	}

	cell := at.Truncate(s.granule)
	if !sameDay(cell, s.anchor) {
		return
	}
	s.current = cell
}

// Candidate returns the interval the drag currently spans:
// [min(anchor,current), max(anchor,current) + granule).
func (s *Selector) Candidate() (Interval, bool) {
	if s.phase != PhaseDragging {
		return Interval{}, false
	}

	lo, hi := s.anchor, s.current
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	return Interval{Start: lo, End: hi.Add(s.granule)}, true
}

// Conflicting reports the live validity of the candidate against the
// snapshot. Advisory only.
func (s *Selector) Conflicting() bool {
	iv, ok := s.Candidate()
	if !ok {
		return false
	}
	return s.snap.Conflicts(iv)
}

// PointerUp ends the drag wherever the pointer is, including outside the
// grid. The final candidate is emitted only if it does not conflict at
// release time; a conflicting release is discarded.
func (s *Selector) PointerUp() (Interval, bool) {
	if s.phase != PhaseDragging {
		return Interval{}, false
	}

	iv, _ := s.Candidate()
	s.phase = PhaseIdle

	if s.snap.Conflicts(iv) {
		return Interval{}, false
	}
	return iv, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
