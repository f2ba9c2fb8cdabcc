// ============================================================================
// cpusched Worker Pool - 並發模擬執行器
// ============================================================================
//
// Package: internal/worker
// 文件: worker_pool.go
// 功能: 管理多個 Worker goroutine 的生命週期，並行執行互不相關的模擬
//
// 設計模式:
//   採用 Worker Pool 模式（工作池模式）：
//   1. 固定數量的 Worker goroutine 持續運行
//   2. 通過共享的 job channel 分發模擬請求
//   3. 通過結果 channel 收集模擬報告
//
// 生命週期:
//   1. NewPool() - 創建 Pool，初始化 channels
//   2. Start(n) - 啟動 n 個 Worker goroutines
//   3. Submit(job) - 提交模擬請求到 jobCh
//   4. ReceiveResult() - 從 resultCh 讀取結果
//   5. Stop() - 關閉 jobCh，等待所有 Worker 完成
//
// 注意：Stop() 之前未被讀取的結果會被丟棄
//
// ============================================================================

package worker

import (
	"errors"
	"sync"

	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/rs/zerolog"
)

// ============================================================================
// 錯誤定義
// ============================================================================

var (
	// ErrPoolClosed 表示當前 Pool 已關閉，無法提交新請求
	ErrPoolClosed = errors.New("worker pool is closed")
	// ErrPoolNotStarted 表示 Pool 尚未啟動，無法提交請求
	ErrPoolNotStarted = errors.New("worker pool not started")
	// ErrPoolStarted 表示 Pool 已啟動，不能重複啟動
	ErrPoolStarted = errors.New("worker pool already started")
)

// ============================================================================
// 資料結構定義
// ============================================================================

// Pool 代表 Worker 池，管理多個並發的 Worker
type Pool struct {
	workers   []*Worker          // 所有啟動的 Worker 實例
	jobCh     chan Job           // 請求通道
	resultCh  chan Result        // 結果通道
	stopCh    chan struct{}      // 停止訊號
	wg        sync.WaitGroup     // 等待所有 Worker 完成
	started   bool               // Pool 是否已啟動
	stopped   bool               // Pool 是否已停止
	mu        sync.Mutex         // 保護 started 和 stopped 狀態
	sendMu    sync.RWMutex       // Submit 發送時持有讀鎖，Stop 關閉 jobCh 時持有寫鎖
	collector *metrics.Collector // 可選的指標收集器
	logger    zerolog.Logger
}

// NewPool 建立新的 Worker Pool
// 參數：
//   - bufferSize: 請求和結果通道的緩衝大小
//   - collector: 指標收集器，可為 nil
//   - logger: 日誌記錄器
func NewPool(bufferSize int, collector *metrics.Collector, logger zerolog.Logger) *Pool {
	return &Pool{
		workers:   make([]*Worker, 0),
		jobCh:     make(chan Job, bufferSize),
		resultCh:  make(chan Result, bufferSize),
		stopCh:    make(chan struct{}),
		collector: collector,
		logger:    logger,
	}
}

// ============================================================================
// 核心方法實作
// ============================================================================

// Start 啟動指定數量的 Worker
func (p *Pool) Start(workerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrPoolStarted // 防止重複啟動
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	for i := 0; i < workerCount; i++ {
		w := newWorker(i, p.jobCh, p.resultCh, p.stopCh, p.collector, p.logger)
		p.workers = append(p.workers, w)

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run()
		}(w)
	}

	p.started = true
	p.logger.Debug().Int("workers", workerCount).Msg("worker pool started")
	return nil
}

// Submit 提交模擬請求到 Worker Pool
//
// 返回值：
//   - error: 如果 Pool 未啟動或已關閉則返回錯誤
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.mu.Unlock()

	// jobCh 只會在沒有發送者時關閉；stopCh 先於 jobCh 關閉
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	select {
	case <-p.stopCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.jobCh <- job:
		return nil
	case <-p.stopCh:
		return ErrPoolClosed
	}
}

// ReceiveResult 從結果通道接收執行結果
func (p *Pool) ReceiveResult() (Result, error) {
	select {
	case result, ok := <-p.resultCh:
		if !ok {
			return Result{}, ErrPoolClosed
		}
		return result, nil
	case <-p.stopCh:
		return Result{}, ErrPoolClosed
	}
}

// Stop 優雅地關閉 Worker Pool
// 關閉流程：
//  1. 設定 stopped 標誌
//  2. 關閉 stopCh 與 jobCh
//  3. 等待所有 Worker 完成當前模擬
//  4. 關閉 resultCh
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)

	p.sendMu.Lock()
	close(p.jobCh)
	p.sendMu.Unlock()

	p.wg.Wait()

	close(p.resultCh)
	p.logger.Debug().Msg("worker pool stopped")
}

// GetWorkerCount 返回當前 Worker 數量
func (p *Pool) GetWorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// IsStarted 檢查 Pool 是否已啟動
func (p *Pool) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
