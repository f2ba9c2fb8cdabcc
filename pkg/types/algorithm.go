package types

import (
	"fmt"
	"strings"
)

// Algorithm 排程演算法識別字
type Algorithm string

// 定義演算法常數
const (
	FCFS               Algorithm = "fcfs"                // 先到先服務
	RoundRobin         Algorithm = "rr"                  // 時間片輪轉
	SJF                Algorithm = "sjf"                 // 最短作業優先（非搶佔）
	Priority           Algorithm = "priority"            // 優先權（非搶佔）
	PriorityPreemptive Algorithm = "priority-preemptive" // 優先權（搶佔）
)

var aliases = map[string]Algorithm{
	"fcfs":                FCFS,
	"fifo":                FCFS,
	"rr":                  RoundRobin,
	"round-robin":         RoundRobin,
	"roundrobin":          RoundRobin,
	"sjf":                 SJF,
	"shortest-job-first":  SJF,
	"priority":            Priority,
	"pnp":                 Priority,
	"priority-np":         Priority,
	"priority-preemptive": PriorityPreemptive,
	"pp":                  PriorityPreemptive,
	"preemptive":          PriorityPreemptive,
}

// Algorithms 以固定順序返回所有演算法
func Algorithms() []Algorithm {
	return []Algorithm{FCFS, RoundRobin, SJF, Priority, PriorityPreemptive}
}

// ParseAlgorithm 解析演算法名稱（不分大小寫，接受別名）
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	if alg, ok := aliases[key]; ok {
		return alg, nil
	}
	return "", fmt.Errorf("unknown algorithm %q", name)
}

func (a Algorithm) String() string {
	return string(a)
}

// DisplayName 返回可讀名稱
func (a Algorithm) DisplayName() string {
	switch a {
	case FCFS:
		return "First-Come-First-Served"
	case RoundRobin:
		return "Round-Robin"
	case SJF:
		return "Shortest-Job-First"
	case Priority:
		return "Priority (non-preemptive)"
	case PriorityPreemptive:
		return "Priority (preemptive)"
	default:
		return "Unknown"
	}
}

// NeedsPriority 是否需要每個任務都帶有優先權
func (a Algorithm) NeedsPriority() bool {
	return a == Priority || a == PriorityPreemptive
}

// NeedsQuantum 是否需要時間片參數
func (a Algorithm) NeedsQuantum() bool {
	return a == RoundRobin
}

// Valid 是否為已知演算法
func (a Algorithm) Valid() bool {
	for _, known := range Algorithms() {
		if a == known {
			return true
		}
	}
	return false
}
