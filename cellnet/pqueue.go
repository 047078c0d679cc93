package cellnet

import "container/heap"

// segmentQueue is an indexed min-priority-queue over SegmentID keyed by
// a float64, supporting ChangeKey. No third-party indexed-heap
// implementation is demonstrated anywhere in the example pack (the only
// candidate, splaytree, appears solely as an indirect model3d
// dependency with no usage example to ground an API against), so this
// wraps container/heap directly, as the teacher's own packages do for
// their internal heaps.
type segmentQueue struct {
	items []*pqItem
	index map[SegmentID]*pqItem
}

type pqItem struct {
	id    SegmentID
	key   float64
	index int
}

func newSegmentQueue() *segmentQueue {
	return &segmentQueue{index: map[SegmentID]*pqItem{}}
}

func (q *segmentQueue) Len() int            { return len(q.items) }
func (q *segmentQueue) Less(i, j int) bool  { return q.items[i].key < q.items[j].key }
func (q *segmentQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *segmentQueue) Push(x any) {
	it := x.(*pqItem)
	it.index = len(q.items)
	q.items = append(q.items, it)
}

func (q *segmentQueue) Pop() any {
	n := len(q.items)
	it := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return it
}

// Insert adds id with the given key. Behavior is undefined if id is
// already present; callers must check Contains first if that matters.
func (q *segmentQueue) Insert(id SegmentID, key float64) {
	it := &pqItem{id: id, key: key}
	q.index[id] = it
	heap.Push(q, it)
}

func (q *segmentQueue) Contains(id SegmentID) bool {
	_, ok := q.index[id]
	return ok
}

// ChangeKey updates id's key in place if present, returning whether it
// was found.
func (q *segmentQueue) ChangeKey(id SegmentID, key float64) bool {
	it, ok := q.index[id]
	if !ok {
		return false
	}
	it.key = key
	heap.Fix(q, it.index)
	return true
}

// PopMin removes and returns the minimum-key entry.
func (q *segmentQueue) PopMin() (SegmentID, float64, bool) {
	if len(q.items) == 0 {
		return 0, 0, false
	}
	it := heap.Pop(q).(*pqItem)
	delete(q.index, it.id)
	return it.id, it.key, true
}

func (q *segmentQueue) Clear() {
	q.items = nil
	q.index = map[SegmentID]*pqItem{}
}
