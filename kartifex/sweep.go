package kartifex

// SweepQueue schedules items along the x-axis: items are taken in increasing
// xmin order and stay active until the sweep position passes their xmax.
// Comparing a taken item against the active items of a parallel queue visits
// every pair of items with overlapping x-intervals exactly once.
type SweepQueue[T any] struct {
	pending sweepHeap[T] // ordered by xmin
	active  sweepHeap[T] // ordered by xmax
}

type sweepEntry[T any] struct {
	item       T
	xmin, xmax float64
}

// Add schedules item over the x-interval [xmin,xmax].
func (q *SweepQueue[T]) Add(item T, xmin, xmax float64) {
	q.pending.push(sweepEntry[T]{item, xmin, xmax}, xmin)
}

// Len returns the number of items not yet taken.
func (q *SweepQueue[T]) Len() int {
	return len(q.pending)
}

// Peek returns the xmin of the next item to be taken.
func (q *SweepQueue[T]) Peek() (float64, bool) {
	if len(q.pending) == 0 {
		return 0.0, false
	}
	return q.pending[0].key, true
}

// Take removes the item with the smallest xmin and moves it to the active
// set. Items must be consumed strictly in increasing xmin order, which Take
// guarantees.
func (q *SweepQueue[T]) Take() (T, float64, bool) {
	if len(q.pending) == 0 {
		var zero T
		return zero, 0.0, false
	}
	e := q.pending.pop()
	q.active.push(e, e.xmax)
	return e.item, e.xmin, true
}

// Advance expires all active items whose xmax lies before the sweep position x.
func (q *SweepQueue[T]) Advance(x float64) {
	for 0 < len(q.active) && q.active[0].key < x-Epsilon {
		q.active.pop()
	}
}

// ActiveItems returns the items added but not yet past their xmax, in no
// particular order.
func (q *SweepQueue[T]) ActiveItems() []T {
	items := make([]T, len(q.active))
	for i := range q.active {
		items[i] = q.active[i].entry.item
	}
	return items
}

// nextQueue returns the queue holding the globally next item by xmin, or nil
// when all queues are drained.
func nextQueue[T any](queues ...*SweepQueue[T]) *SweepQueue[T] {
	var next *SweepQueue[T]
	var nextX float64
	for _, q := range queues {
		if x, ok := q.Peek(); ok && (next == nil || x < nextX) {
			next, nextX = q, x
		}
	}
	return next
}

////////////////////////////////////////////////////////////////

type sweepNode[T any] struct {
	entry sweepEntry[T]
	key   float64
}

// sweepHeap is a binary min-heap on key.
type sweepHeap[T any] []sweepNode[T]

func (h *sweepHeap[T]) push(e sweepEntry[T], key float64) {
	*h = append(*h, sweepNode[T]{e, key})
	h.up(len(*h) - 1)
}

func (h *sweepHeap[T]) pop() sweepEntry[T] {
	q := *h
	n := len(q) - 1
	q[0], q[n] = q[n], q[0]
	h.down(0, n)
	e := q[n].entry
	*h = q[:n]
	return e
}

func (h sweepHeap[T]) up(j int) {
	for 0 < j {
		i := (j - 1) / 2 // parent
		if i == j || h[j].key >= h[i].key {
			break
		}
		h[i], h[j] = h[j], h[i]
		j = i
	}
}

func (h sweepHeap[T]) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if n <= j1 || j1 < 0 {
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h[j2].key < h[j1].key {
			j = j2 // right child
		}
		if h[i].key <= h[j].key {
			break
		}
		h[i], h[j] = h[j], h[i]
		i = j
	}
}
