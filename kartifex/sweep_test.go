package kartifex

import (
	"sort"
	"testing"

	"github.com/tdewolff/test"
)

func TestSweepQueueOrder(t *testing.T) {
	q := &SweepQueue[string]{}
	q.Add("c", 3.0, 4.0)
	q.Add("a", 1.0, 2.0)
	q.Add("d", 4.0, 5.0)
	q.Add("b", 2.0, 3.0)
	test.T(t, q.Len(), 4)

	x, ok := q.Peek()
	test.That(t, ok)
	test.Float(t, x, 1.0)

	var items []string
	var xs []float64
	for {
		item, x, ok := q.Take()
		if !ok {
			break
		}
		items = append(items, item)
		xs = append(xs, x)
	}
	test.T(t, items, []string{"a", "b", "c", "d"})
	test.T(t, xs, []float64{1.0, 2.0, 3.0, 4.0})
	test.T(t, q.Len(), 0)

	_, ok = q.Peek()
	test.That(t, !ok)
}

func TestSweepQueueActive(t *testing.T) {
	q := &SweepQueue[int]{}
	q.Add(1, 0.0, 1.0)
	q.Add(2, 0.5, 3.0)
	q.Add(3, 2.0, 4.0)

	q.Take()
	q.Take()
	test.T(t, activeSorted(q), []int{1, 2})

	// item 1 expires once the sweep passes x=1
	q.Take()
	q.Advance(2.0)
	test.T(t, activeSorted(q), []int{2, 3})

	q.Advance(3.5)
	test.T(t, activeSorted(q), []int{3})

	q.Advance(10.0)
	test.T(t, len(q.ActiveItems()), 0)
}

func TestSweepQueueAdvanceEpsilon(t *testing.T) {
	q := &SweepQueue[int]{}
	q.Add(1, 0.0, 1.0)
	q.Take()

	// an item whose xmax equals the sweep position stays active
	q.Advance(1.0)
	test.T(t, activeSorted(q), []int{1})
	q.Advance(1.0 + 2.0*Epsilon)
	test.T(t, len(q.ActiveItems()), 0)
}

func TestNextQueue(t *testing.T) {
	qa := &SweepQueue[int]{}
	qb := &SweepQueue[int]{}
	qa.Add(1, 1.0, 2.0)
	qa.Add(3, 3.0, 4.0)
	qb.Add(2, 2.0, 3.0)

	test.That(t, nextQueue(qa, qb) == qa)
	qa.Take()
	test.That(t, nextQueue(qa, qb) == qb)
	qb.Take()
	test.That(t, nextQueue(qa, qb) == qa)
	qa.Take()
	test.That(t, nextQueue(qa, qb) == nil)
}

func activeSorted(q *SweepQueue[int]) []int {
	items := q.ActiveItems()
	sort.Ints(items)
	return items
}
