package engine

import "goban/internal/domain/board"

// MoveRecord is one committed move. Records are never modified once
// appended; undo only drops them from the tail.
type MoveRecord struct {
	Point    board.Point   `json:"point" bson:"point"`
	Pass     bool          `json:"pass,omitempty" bson:"pass,omitempty"`
	Color    board.Color   `json:"color" bson:"color"`
	Captured []board.Point `json:"captured,omitempty" bson:"captured,omitempty"`
	Elapsed  Clock         `json:"elapsed" bson:"elapsed"`
	Captures Tally         `json:"captures" bson:"captures"`
}

type History struct {
	records []MoveRecord
}

func (h *History) commit(r MoveRecord) {
	h.records = append(h.records, r)
}

func (h *History) pop() (MoveRecord, bool) {
	n := len(h.records)
	if n == 0 {
		return MoveRecord{}, false
	}
	last := h.records[n-1]
	h.records = h.records[:n-1]
	return last, true
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Last() (MoveRecord, bool) {
	if len(h.records) == 0 {
		return MoveRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

func (h *History) Records() []MoveRecord {
	return append([]MoveRecord(nil), h.records...)
}

// endsWithPasses reports whether the last n records are all passes.
func (h *History) endsWithPasses(n int) bool {
	if len(h.records) < n {
		return false
	}
	for _, r := range h.records[len(h.records)-n:] {
		if !r.Pass {
			return false
		}
	}
	return true
}
