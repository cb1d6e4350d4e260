package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/response"
)

const healthTimeout = 3 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// SystemHandler reports process health and notification queue depth.
type SystemHandler struct {
	rdb       *redis.Client
	checks    map[string]HealthCheck
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. checks maps a dependency name
// ("mongo", "redis") to its probe.
func NewSystemHandler(rdb *redis.Client, checks map[string]HealthCheck, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Pings every dependency. Any failure turns the response into a 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	response.Success(c, status, gin.H{"status": overall, "dependencies": deps})
}

type systemStatus struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// Go runtime
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`

	// Notification outbox
	QueuePending    int64 `json:"queue_pending"`
	QueueRetrying   int64 `json:"queue_retrying"`
	QueueDeadLetter int64 `json:"queue_dead_letter"`
}

// Status godoc
// GET /api/admin/system
// Returns runtime figures and the depth of the notification queues.
func (h *SystemHandler) Status(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := systemStatus{
		Timestamp:  time.Now().Unix(),
		Uptime:     formatDuration(time.Since(h.startTime)),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		HeapSys:    ms.Sys,
		NumGC:      ms.NumGC,
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
	}

	ctx := c.Request.Context()
	pipe := h.rdb.Pipeline()
	pendingCmd := pipe.LLen(ctx, config.WorkerKey.NotificationQueue)
	retryCmd := pipe.ZCard(ctx, config.WorkerKey.NotificationRetrySet)
	deadCmd := pipe.LLen(ctx, config.WorkerKey.NotificationDeadLetter)
	if _, err := pipe.Exec(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Queue depth lookup failed")
	} else {
		s.QueuePending, _ = pendingCmd.Result()
		s.QueueRetrying, _ = retryCmd.Result()
		s.QueueDeadLetter, _ = deadCmd.Result()
	}

	response.Success(c, http.StatusOK, s)
}

// formatDuration renders d as "3d 4h 5m".
func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
