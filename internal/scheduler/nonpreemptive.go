package scheduler

import "github.com/ChuLiYu/cpusched/pkg/types"

// shortestJobFirst picks the shortest arrived job and runs it to completion
func shortestJobFirst(jobs []*job, _ int) types.Trace {
	return runToCompletion(jobs, byBurst)
}

// priorityNonPreemptive picks the highest priority arrived job and runs it to completion
func priorityNonPreemptive(jobs []*job, _ int) types.Trace {
	return runToCompletion(jobs, byPriority)
}

// runToCompletion is the decision loop shared by the non-preemptive selectors:
// at each decision point choose the first ready job under order, or jump the
// clock to the next arrival when nothing is ready.
func runToCompletion(jobs []*job, order jobOrder) types.Trace {
	trace := make(types.Trace, 0, len(jobs))
	ready := newReadySet(order)
	incoming := &arrivals{jobs: jobs}

	clock := 0
	for finished := 0; finished < len(jobs); {
		incoming.admit(clock, ready.add)

		j := ready.peek()
		if j == nil {
			clock = incoming.nextArrival() // idle gap
			continue
		}

		ready.remove(j)
		trace = append(trace, j.segment(clock, clock+j.burst))
		clock += j.burst
		j.remaining = 0
		j.finish(clock)
		finished++
	}
	return trace
}
