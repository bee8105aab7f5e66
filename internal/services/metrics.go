package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

type MetricSample struct {
	ID                string    `db:"id" json:"-"`
	CapturedAt        time.Time `db:"captured_at" json:"capturedAt"`
	HeapUsedBytes     int64     `db:"heap_used_bytes" json:"heapUsedBytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes" json:"heapMaxBytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes" json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes" json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes" json:"diskTotalBytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes" json:"diskUsedBytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load" json:"processCpuLoad"`
	SystemCpuLoad     float64   `db:"system_cpu_load" json:"systemCpuLoad"`
}

// SampleHost reads process and host usage. Probes that fail leave their
// fields at zero.
func SampleHost(ctx context.Context, diskPath string) MetricSample {
	sample := MetricSample{CapturedAt: time.Now().UTC()}
	if memStat, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sample.HeapMaxBytes = int64(memStat.Total)
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	diskStat, err := disk.UsageWithContext(ctx, diskPath)
	if err != nil {
		diskStat, err = disk.UsageWithContext(ctx, "/")
	}
	if err == nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfoWithContext(ctx); err == nil && rss != nil {
			sample.HeapUsedBytes = int64(rss.RSS)
		}
		if cpuPerc, err := proc.CPUPercentWithContext(ctx); err == nil {
			sample.ProcessCpuLoad = cpuPerc / 100.0
		}
	}
	if sysCPU, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(sysCPU) > 0 {
		sample.SystemCpuLoad = sysCPU[0] / 100.0
	}
	return sample
}

func SaveMetrics(ctx context.Context, db *sqlx.DB, sample MetricSample) error {
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	_, err := db.NamedExecContext(ctx, `
INSERT INTO server_metric_samples (
  id, captured_at, heap_used_bytes, heap_max_bytes, system_memory_total_bytes,
  system_memory_used_bytes, disk_total_bytes, disk_used_bytes, process_cpu_load, system_cpu_load
) VALUES (
  :id, :captured_at, :heap_used_bytes, :heap_max_bytes, :system_memory_total_bytes,
  :system_memory_used_bytes, :disk_total_bytes, :disk_used_bytes, :process_cpu_load, :system_cpu_load
)
`, sample)
	return err
}

// CaptureMetrics samples the host and persists the sample.
func CaptureMetrics(ctx context.Context, db *sqlx.DB, diskPath string) (MetricSample, error) {
	sample := SampleHost(ctx, diskPath)
	if err := SaveMetrics(ctx, db, sample); err != nil {
		return MetricSample{}, err
	}
	return sample, nil
}

// LatestMetrics returns the newest samples in chronological order.
func LatestMetrics(ctx context.Context, db *sqlx.DB, limit int) ([]MetricSample, error) {
	rows := []MetricSample{}
	if err := db.SelectContext(ctx, &rows, db.Rebind(`
SELECT id, captured_at, heap_used_bytes, heap_max_bytes, system_memory_total_bytes,
       system_memory_used_bytes, disk_total_bytes, disk_used_bytes, process_cpu_load, system_cpu_load
FROM server_metric_samples
ORDER BY captured_at DESC
LIMIT ?
`), limit); err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// MetricsSink receives each sample the sampler captures.
type MetricsSink interface {
	Broadcast(MetricSample)
}

// RunSampler captures a sample every interval until ctx is done.
func RunSampler(ctx context.Context, interval time.Duration, capture func(context.Context) (MetricSample, error), sink MetricsSink, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sample, err := capture(ctx)
			if err != nil {
				logger.Warn("metrics capture failed", zap.Error(err))
				continue
			}
			sink.Broadcast(sample)
		case <-ctx.Done():
			return
		}
	}
}

// MetricsHub fans samples out to the connected overview sockets.
type MetricsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan MetricSample
	log     *zap.Logger
}

func NewMetricsHub(logger *zap.Logger) *MetricsHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan MetricSample, 16),
		log:     logger,
	}
}

func (h *MetricsHub) Run(ctx context.Context) {
	for {
		select {
		case sample := <-h.ch:
			h.send(sample)
		case <-ctx.Done():
			return
		}
	}
}

func (h *MetricsHub) send(sample MetricSample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(sample); err != nil {
			h.log.Debug("dropping metrics subscriber", zap.Error(err))
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

// Broadcast queues a sample. It never blocks; samples are dropped while the
// queue is full.
func (h *MetricsHub) Broadcast(sample MetricSample) {
	select {
	case h.ch <- sample:
	default:
	}
}

func (h *MetricsHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *MetricsHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *MetricsHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
