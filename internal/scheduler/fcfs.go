package scheduler

import "github.com/ChuLiYu/cpusched/pkg/types"

// firstComeFirstServed runs jobs to completion in arrival order
func firstComeFirstServed(jobs []*job, _ int) types.Trace {
	trace := make(types.Trace, 0, len(jobs))
	clock := 0
	for _, j := range jobs {
		if clock < j.arrival {
			clock = j.arrival // idle gap
		}
		trace = append(trace, j.segment(clock, clock+j.burst))
		clock += j.burst
		j.finish(clock)
	}
	return trace
}
