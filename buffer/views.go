package buffer

import (
	"github.com/google/btree"
	"github.com/peco/scrollback/line"
)

func newViews() views {
	return views{index: btree.New(indexDegree)}
}

func (v *views) size() int {
	return v.full.Len()
}

func (v *views) pushFront(l line.Line) {
	v.full.PushFront(l)
	if l.Visible() {
		v.visible.PushFront(l)
	}
	v.index.ReplaceOrInsert(l)
}

func (v *views) pushBack(l line.Line) {
	v.full.PushBack(l)
	if l.Visible() {
		v.visible.PushBack(l)
	}
	v.index.ReplaceOrInsert(l)
}

// evictOldest removes the oldest line from both projections.
// The oldest visible line is always the oldest line overall
// if the latter is visible, so popping both fronts is enough.
func (v *views) evictOldest() line.Line {
	l := v.full.PopFront()
	if l == nil {
		return nil
	}
	if l.Visible() {
		v.visible.PopFront()
	}
	v.index.Delete(line.Key(l.ID()))
	return l
}

// makeRoom evicts the oldest line if the full projection holds
// limit lines or more. Returns the evicted line, if any.
func (v *views) makeRoom(limit int) line.Line {
	if v.full.Len() < limit {
		return nil
	}
	return v.evictOldest()
}

func (v *views) contains(id uint64) bool {
	return v.index.Has(line.Key(id))
}

func (v *views) reset() {
	v.full.Reset()
	v.visible.Reset()
	v.index.Clear(false)
}
