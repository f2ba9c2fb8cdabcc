// ============================================================================
// cpusched Metrics - Prometheus 監控指標
// ============================================================================
//
// Package: internal/metrics
// 文件: metrics.go
// 功能: 收集和暴露模擬執行指標，支持 Prometheus 監控
//
// 指標分類:
//
//   1. 計數器 (Counter) - 累計值，只增不減：
//      - cpusched_simulations_total{algorithm}: 成功完成的模擬次數
//      - cpusched_simulation_errors_total{kind}: 失敗次數，kind = input | internal
//      - cpusched_tasks_scheduled_total: 已排程任務總數
//      - cpusched_context_switches_total{algorithm}: 模擬中的上下文切換次數
//
//   2. 性能指標 (Histogram)：
//      - cpusched_simulation_duration_seconds: 單次模擬的實際耗時
//
//   3. 狀態指標 (Gauge)：
//      - cpusched_avg_turnaround_time{algorithm}: 最近一次模擬的平均周轉時間
//      - cpusched_avg_waiting_time{algorithm}: 最近一次模擬的平均等待時間
//      - cpusched_worker_in_flight: Worker 池中執行中的模擬數
//
// Prometheus 查詢示例:
//
//   # 各演算法的模擬速率
//   rate(cpusched_simulations_total[1m])
//
//   # 內部錯誤（引擎缺陷）應該永遠為 0
//   cpusched_simulation_errors_total{kind="internal"}
//
// HTTP 端點:
//   通過 /metrics 端點暴露，默認端口: 9090
//
// ============================================================================

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector Prometheus 指標收集器
type Collector struct {
	// 模擬相關指標
	simulations     *prometheus.CounterVec
	errors          *prometheus.CounterVec
	tasksScheduled  prometheus.Counter
	contextSwitches *prometheus.CounterVec

	// 效能指標
	duration prometheus.Histogram

	// 狀態指標
	avgTurnaround *prometheus.GaugeVec
	avgWaiting    *prometheus.GaugeVec
	inFlight      prometheus.Gauge

	handler http.Handler
}

// NewCollector 創建新的指標收集器並註冊到 reg
//
// 參數：
//   - reg: 指標註冊表，nil 時使用 Prometheus 預設註冊表
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpusched_simulations_total",
			Help: "Total number of completed simulations",
		}, []string{"algorithm"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpusched_simulation_errors_total",
			Help: "Total number of failed simulations by error kind",
		}, []string{"kind"}),
		tasksScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpusched_tasks_scheduled_total",
			Help: "Total number of tasks scheduled across simulations",
		}),
		contextSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpusched_context_switches_total",
			Help: "Total number of simulated context switches",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cpusched_simulation_duration_seconds",
			Help:    "Wall clock time spent computing one simulation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		avgTurnaround: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cpusched_avg_turnaround_time",
			Help: "Average turnaround time of the latest simulation",
		}, []string{"algorithm"}),
		avgWaiting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cpusched_avg_waiting_time",
			Help: "Average waiting time of the latest simulation",
		}, []string{"algorithm"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpusched_worker_in_flight",
			Help: "Current number of simulations running on the worker pool",
		}),
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	c.handler = promhttp.Handler()
	if reg != nil {
		registerer = reg
		c.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// 註冊所有指標
	registerer.MustRegister(
		c.simulations,
		c.errors,
		c.tasksScheduled,
		c.contextSwitches,
		c.duration,
		c.avgTurnaround,
		c.avgWaiting,
		c.inFlight,
	)

	return c
}

// RecordSimulation 記錄一次成功的模擬
func (c *Collector) RecordSimulation(report *types.Report, elapsed time.Duration) {
	alg := report.Algorithm.String()
	c.simulations.WithLabelValues(alg).Inc()
	c.tasksScheduled.Add(float64(len(report.Tasks)))
	c.contextSwitches.WithLabelValues(alg).Add(float64(report.Stats.ContextSwitches))
	c.duration.Observe(elapsed.Seconds())
	c.avgTurnaround.WithLabelValues(alg).Set(report.Averages.AvgTurnaround)
	c.avgWaiting.WithLabelValues(alg).Set(report.Averages.AvgWaiting)
}

// RecordError 記錄一次失敗的模擬，依錯誤種類分類
func (c *Collector) RecordError(err error) {
	c.errors.WithLabelValues(ErrorKind(err)).Inc()
}

// IncInFlight 執行中的模擬數 +1
func (c *Collector) IncInFlight() {
	c.inFlight.Inc()
}

// DecInFlight 執行中的模擬數 -1
func (c *Collector) DecInFlight() {
	c.inFlight.Dec()
}

// Handler 返回 /metrics 的 HTTP handler
func (c *Collector) Handler() http.Handler {
	return c.handler
}

// ErrorKind 將錯誤分類為 input / internal / other
func ErrorKind(err error) string {
	switch {
	case scheduler.IsInputError(err):
		return "input"
	case scheduler.IsInternalError(err):
		return "internal"
	default:
		return "other"
	}
}

// StartServer 啟動 Prometheus metrics HTTP 伺服器，ctx 結束時優雅關閉
//
// 參數：
//   - ctx: 控制伺服器生命週期
//   - port: HTTP 伺服器端口
//
// 返回值：
//   - error: 啟動失敗的錯誤
func (c *Collector) StartServer(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
