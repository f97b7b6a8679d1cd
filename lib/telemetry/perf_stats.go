package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("econdata/runtime")

var cpuGauge, _ = meter.Float64Gauge("process.cpu_percent")
var heapGauge, _ = meter.Int64Gauge("process.heap_alloc_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("process.live_objects")
var goroutineGauge, _ = meter.Int64Gauge("process.goroutines")

const perfSampleInterval = time.Second * 30

// InstrumentPerfStats samples process runtime gauges on a fixed interval
// until ctx is cancelled. Long ingestion runs are otherwise opaque between
// spans; these gauges show whether a stall is cpu, heap or goroutine growth.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfSampleInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ticker.C:
				samplePerfStats(ctx, &memStats)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func samplePerfStats(ctx context.Context, memStats *runtime.MemStats) {
	runtime.ReadMemStats(memStats)

	// interval 0 measures against the previous call instead of blocking
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		slog.WarnContext(ctx, "failed to sample cpu usage", "err", err)
	} else if len(usage) > 0 {
		cpuGauge.Record(ctx, usage[0])
	}

	heapGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs-memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
}
