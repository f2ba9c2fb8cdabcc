package worker

import (
	"time"

	"github.com/ChuLiYu/cpusched/pkg/types"
)

// Job 代表一次要執行的模擬請求
type Job struct {
	ID        string          // 請求唯一識別碼
	Algorithm types.Algorithm // 排程演算法
	Tasks     []types.Task    // 任務集合（Worker 只讀取，不修改）
	Quantum   int             // 時間片，僅 Round-Robin 使用
}

// Result 代表模擬執行結果
type Result struct {
	JobID     string          // 請求 ID
	Algorithm types.Algorithm // 排程演算法
	Report    *types.Report   // 模擬報告（失敗時為 nil）
	Error     error           // 錯誤訊息（如果有）
	Duration  time.Duration   // 實際執行時間
}
