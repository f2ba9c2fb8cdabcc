package scheduler

import (
	"sort"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// job is the per-run working copy of a task. remaining never leaves the package.
type job struct {
	index     int // position in the caller's slice
	order     int // position after the stable arrival sort
	id        string
	arrival   int
	burst     int
	priority  int
	remaining int

	completion int
	done       bool
}

func (j *job) finish(clock int) {
	j.completion = clock
	j.done = true
}

func (j *job) segment(start, end int) types.Segment {
	return types.Segment{TaskID: j.id, TaskIndex: j.index, Start: start, End: end}
}

// prepare builds working records sorted by arrival time.
// Ties keep the caller's declaration order.
func prepare(tasks []types.Task) []*job {
	jobs := make([]*job, len(tasks))
	for i, t := range tasks {
		jobs[i] = &job{
			index:     i,
			id:        t.ID,
			arrival:   t.ArrivalTime,
			burst:     t.BurstTime,
			priority:  t.PriorityValue(),
			remaining: t.BurstTime,
		}
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		return jobs[a].arrival < jobs[b].arrival
	})
	for i, j := range jobs {
		j.order = i
	}
	return jobs
}

// jobOrder returns <0 when a must be selected before b
type jobOrder func(a, b *job) int

// byBurst orders SJF candidates: shortest burst, then arrival-sort position
func byBurst(a, b *job) int {
	if c := compareInt(a.burst, b.burst); c != 0 {
		return c
	}
	return compareInt(a.order, b.order)
}

// byPriority orders priority candidates: lowest value, then earliest arrival,
// then arrival-sort position
func byPriority(a, b *job) int {
	if c := compareInt(a.priority, b.priority); c != 0 {
		return c
	}
	if c := compareInt(a.arrival, b.arrival); c != 0 {
		return c
	}
	return compareInt(a.order, b.order)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// readySet holds admitted, unfinished jobs in selection order.
// Keys only use fields that never change during a run.
type readySet struct {
	tree *redblacktree.Tree
}

func newReadySet(order jobOrder) *readySet {
	return &readySet{
		tree: redblacktree.NewWith(func(a, b interface{}) int {
			return order(a.(*job), b.(*job))
		}),
	}
}

func (r *readySet) add(j *job) {
	r.tree.Put(j, j)
}

// peek returns the job that would be selected next, or nil when empty
func (r *readySet) peek() *job {
	node := r.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value.(*job)
}

func (r *readySet) remove(j *job) {
	r.tree.Remove(j)
}

// arrivals feeds jobs into a ready structure as the clock passes their arrival time
type arrivals struct {
	jobs []*job
	next int
}

// admit calls fn, in arrival order, for every pending job with arrival <= clock
func (a *arrivals) admit(clock int, fn func(*job)) {
	for a.next < len(a.jobs) && a.jobs[a.next].arrival <= clock {
		fn(a.jobs[a.next])
		a.next++
	}
}

// pending reports whether some job has not been admitted yet
func (a *arrivals) pending() bool {
	return a.next < len(a.jobs)
}

// nextArrival is the arrival time of the next job to admit. Only valid when pending.
func (a *arrivals) nextArrival() int {
	return a.jobs[a.next].arrival
}
