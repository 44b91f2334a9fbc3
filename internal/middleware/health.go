package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const probeTimeout = 5 * time.Second

// HealthChecker is a dependency that can report whether it is reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type probeResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

type healthReport struct {
	Healthy bool          `json:"healthy"`
	Checked time.Time     `json:"checked_at"`
	Probes  []probeResult `json:"probes"`
}

// HealthHandler probes every dependency concurrently, reports them in name
// order and answers 503 when any of them fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		report := healthReport{Healthy: true, Checked: time.Now(), Probes: make([]probeResult, len(names))}
		var g errgroup.Group
		for i, name := range names {
			i, name := i, name
			g.Go(func() error {
				start := time.Now()
				err := checkers[name].Check(ctx)
				p := probeResult{Name: name, OK: err == nil, Latency: time.Since(start).String()}
				if err != nil {
					p.Error = err.Error()
				}
				report.Probes[i] = p
				return nil
			})
		}
		g.Wait()
		for _, p := range report.Probes {
			if !p.OK {
				report.Healthy = false
			}
		}

		status := http.StatusOK
		if !report.Healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(report)
	}
}

// LivenessHandler answers 200 while the process is serving.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
