package solver

import "container/heap"

type queued struct {
	state State
	score int
	seq   int
}

// frontier is a max-heap on score. Ties go to the deeper state, then to the
// one queued first.
type frontier []*queued

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].score != f[j].score {
		return f[i].score > f[j].score
	}
	if f[i].state.Depth != f[j].state.Depth {
		return f[i].state.Depth > f[j].state.Depth
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*queued)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// pending is the set of states waiting to be examined.
type pending interface {
	push(states ...State)
	pop() (State, bool)
}

type priorityQueue struct {
	items frontier
	seq   int
}

func (q *priorityQueue) push(states ...State) {
	for _, s := range states {
		heap.Push(&q.items, &queued{state: s, score: s.Score(), seq: q.seq})
		q.seq++
	}
}

func (q *priorityQueue) pop() (State, bool) {
	if q.items.Len() == 0 {
		return State{}, false
	}
	return heap.Pop(&q.items).(*queued).state, true
}

// lifo pushes successors in reverse so the preferred move is explored first.
type lifo []State

func (l *lifo) push(states ...State) {
	for i := len(states) - 1; i >= 0; i-- {
		*l = append(*l, states[i])
	}
}

func (l *lifo) pop() (State, bool) {
	old := *l
	if len(old) == 0 {
		return State{}, false
	}
	s := old[len(old)-1]
	old[len(old)-1] = State{}
	*l = old[:len(old)-1]
	return s, true
}
