// Package health exposes a liveness endpoint with process resource usage,
// for monitoring long-running kiosk deployments.
package health

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Handler returns an http.Handler serving a JSON health report: status,
// uptime, and the process's memory and CPU usage. Resource lookups are best
// effort; failures leave the fields at zero rather than failing the check.
func Handler() http.Handler {
	start := time.Now()
	pid := int32(os.Getpid())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := struct {
			Status     string  `json:"status"`
			UptimeS    int64   `json:"uptime_s"`
			RSSBytes   uint64  `json:"rss_bytes"`
			CPUPercent float64 `json:"cpu_percent"`
		}{
			Status:  "ok",
			UptimeS: int64(time.Since(start).Seconds()),
		}

		if proc, err := process.NewProcess(pid); err == nil {
			if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
				report.RSSBytes = mem.RSS
			}
			if cpu, err := proc.CPUPercent(); err == nil {
				report.CPUPercent = cpu
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(report)
	})
}
