package scheduler

import (
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// roundRobin runs the head of a FIFO ready queue for at most quantum units.
//
// Jobs that arrive while a slice runs (including exactly at its end) are queued
// before the preempted job rejoins the tail.
func roundRobin(jobs []*job, quantum int) types.Trace {
	var trace types.Trace
	queue := linkedlistqueue.New()
	incoming := &arrivals{jobs: jobs}
	enqueue := func(j *job) { queue.Enqueue(j) }

	clock := 0
	for finished := 0; finished < len(jobs); {
		incoming.admit(clock, enqueue)

		v, ok := queue.Dequeue()
		if !ok {
			clock = incoming.nextArrival() // idle gap
			continue
		}

		j := v.(*job)
		slice := min(quantum, j.remaining)
		trace = append(trace, j.segment(clock, clock+slice))
		clock += slice
		j.remaining -= slice

		incoming.admit(clock, enqueue)

		if j.remaining == 0 {
			j.finish(clock)
			finished++
			continue
		}
		queue.Enqueue(j)
	}
	return trace
}
