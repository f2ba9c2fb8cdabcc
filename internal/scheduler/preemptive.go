package scheduler

import "github.com/ChuLiYu/cpusched/pkg/types"

// priorityPreemptive always runs the highest priority arrived job.
//
// The selection can only change when a job finishes or a new job arrives, so the
// selected job runs until the earlier of those two events instead of one unit at
// a time. Consecutive slices of the same job are merged into one segment.
func priorityPreemptive(jobs []*job, _ int) types.Trace {
	var trace types.Trace
	ready := newReadySet(byPriority)
	incoming := &arrivals{jobs: jobs}

	clock := 0
	for finished := 0; finished < len(jobs); {
		incoming.admit(clock, ready.add)

		j := ready.peek()
		if j == nil {
			clock = incoming.nextArrival() // idle gap
			continue
		}

		run := j.remaining
		if incoming.pending() {
			run = min(run, incoming.nextArrival()-clock)
		}

		trace = appendCoalesced(trace, j.segment(clock, clock+run))
		clock += run
		j.remaining -= run

		if j.remaining == 0 {
			ready.remove(j)
			j.finish(clock)
			finished++
		}
	}
	return trace
}

// appendCoalesced extends the last segment when seg continues the same task
func appendCoalesced(trace types.Trace, seg types.Segment) types.Trace {
	if n := len(trace); n > 0 {
		last := &trace[n-1]
		if last.TaskIndex == seg.TaskIndex && last.End == seg.Start {
			last.End = seg.End
			return trace
		}
	}
	return append(trace, seg)
}
