// Package types 定義了 cpusched 系統中使用的核心領域模型
package types

// Task 任務結構，代表一個待排程的 CPU 工作單元
//
// 由呼叫端建立時只包含 ID/ArrivalTime/BurstTime/Priority，
// CompletionTime 由排程演算法設定，TurnaroundTime/WaitingTime 由指標計算設定。
type Task struct {
	// 識別與輸入
	ID          string `json:"id" yaml:"id"`                                 // 任務唯一識別碼（由呼叫端保證唯一）
	ArrivalTime int    `json:"arrival_time" yaml:"arrival_time"`             // 到達時間 AT
	BurstTime   int    `json:"burst_time" yaml:"burst_time"`                 // 執行時間 BT
	Priority    *int   `json:"priority,omitempty" yaml:"priority,omitempty"` // 優先權 PR，數字越小優先權越高

	// 排程結果（未設定時為 nil）
	CompletionTime *int `json:"completion_time,omitempty" yaml:"completion_time,omitempty"` // 完成時間 CT
	TurnaroundTime *int `json:"turnaround_time,omitempty" yaml:"turnaround_time,omitempty"` // 周轉時間 TAT = CT - AT
	WaitingTime    *int `json:"waiting_time,omitempty" yaml:"waiting_time,omitempty"`       // 等待時間 WT = TAT - BT
}

// Clone 深拷貝任務，指標欄位不與原任務共享
func (t Task) Clone() Task {
	c := t
	c.Priority = cloneInt(t.Priority)
	c.CompletionTime = cloneInt(t.CompletionTime)
	c.TurnaroundTime = cloneInt(t.TurnaroundTime)
	c.WaitingTime = cloneInt(t.WaitingTime)
	return c
}

// PriorityValue 返回優先權，未設定時為 0
func (t Task) PriorityValue() int {
	if t.Priority == nil {
		return 0
	}
	return *t.Priority
}

// CloneTasks 深拷貝整個任務集合
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Int 返回 v 的指標，方便建構可選欄位
func Int(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Segment 執行片段：某任務在 [Start, End) 區間佔用處理器
type Segment struct {
	TaskID    string `json:"task_id" yaml:"task_id"`
	TaskIndex int    `json:"task_index" yaml:"task_index"` // 任務在輸入切片中的位置
	Start     int    `json:"start" yaml:"start"`
	End       int    `json:"end" yaml:"end"`
}

// Duration 返回片段長度
func (s Segment) Duration() int {
	return s.End - s.Start
}

// Trace 執行軌跡，依 Start 排序且互不重疊
type Trace []Segment

// Averages 平均周轉時間與平均等待時間
type Averages struct {
	AvgTurnaround float64 `json:"avg_tat" yaml:"avg_tat"`
	AvgWaiting    float64 `json:"avg_wt" yaml:"avg_wt"`
}

// Stats 由執行軌跡推導出的排程統計
type Stats struct {
	Makespan        int     `json:"makespan" yaml:"makespan"`                 // 最後一個任務的完成時間
	IdleTime        int     `json:"idle_time" yaml:"idle_time"`               // 處理器閒置總時間
	ContextSwitches int     `json:"context_switches" yaml:"context_switches"` // 相鄰片段屬於不同任務的次數
	Utilization     float64 `json:"utilization" yaml:"utilization"`           // 忙碌時間 / makespan
	Throughput      float64 `json:"throughput" yaml:"throughput"`             // 任務數 / makespan
}

// Report 一次完整模擬的結果
type Report struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	Quantum   int       `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Tasks     []Task    `json:"tasks" yaml:"tasks"`
	Trace     Trace     `json:"trace" yaml:"trace"`
	Averages  Averages  `json:"averages" yaml:"averages"`
	Stats     Stats     `json:"stats" yaml:"stats"`
}
