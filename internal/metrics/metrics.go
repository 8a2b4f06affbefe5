// Package metrics collects request counters and exposes them in the
// Prometheus text exposition format without an external metrics library.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"
)

type requestKey struct {
	method string
	status int
}

type snapshot struct {
	requests      map[requestKey]uint64
	durationSum   float64
	durationCount uint64
	inFlight      int64
	uptime        float64
}

// Collector accumulates HTTP request metrics. Safe for concurrent use.
type Collector struct {
	mu            sync.Mutex
	started       time.Time
	requests      map[requestKey]uint64
	durationSum   float64
	durationCount uint64
	inFlight      int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		started:  time.Now(),
		requests: make(map[requestKey]uint64),
	}
}

// Observe records one completed request.
func (c *Collector) Observe(method string, status int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests[requestKey{method: method, status: status}]++
	c.durationSum += duration.Seconds()
	c.durationCount++
}

func (c *Collector) trackInFlight(delta int64) {
	c.mu.Lock()
	c.inFlight += delta
	c.mu.Unlock()
}

func (c *Collector) snapshot() snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests := make(map[requestKey]uint64, len(c.requests))
	for k, v := range c.requests {
		requests[k] = v
	}

	return snapshot{
		requests:      requests,
		durationSum:   c.durationSum,
		durationCount: c.durationCount,
		inFlight:      c.inFlight,
		uptime:        time.Since(c.started).Seconds(),
	}
}

// Handler serves the current metric values as Prometheus text format.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := c.snapshot()

		keys := make([]requestKey, 0, len(snap.requests))
		for k := range snap.requests {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].method != keys[j].method {
				return keys[i].method < keys[j].method
			}
			return keys[i].status < keys[j].status
		})

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		fmt.Fprintln(w, "# HELP http_requests_total Completed HTTP requests.")
		fmt.Fprintln(w, "# TYPE http_requests_total counter")
		for _, k := range keys {
			fmt.Fprintf(w, "http_requests_total{method=%q,status=%q} %d\n",
				k.method, strconv.Itoa(k.status), snap.requests[k])
		}

		fmt.Fprintln(w, "# HELP http_request_duration_seconds Total request handling time.")
		fmt.Fprintln(w, "# TYPE http_request_duration_seconds summary")
		fmt.Fprintf(w, "http_request_duration_seconds_sum %g\n", snap.durationSum)
		fmt.Fprintf(w, "http_request_duration_seconds_count %d\n", snap.durationCount)

		fmt.Fprintln(w, "# HELP http_requests_in_flight Requests currently being served.")
		fmt.Fprintln(w, "# TYPE http_requests_in_flight gauge")
		fmt.Fprintf(w, "http_requests_in_flight %d\n", snap.inFlight)

		fmt.Fprintln(w, "# HELP process_uptime_seconds Seconds since process start.")
		fmt.Fprintln(w, "# TYPE process_uptime_seconds gauge")
		fmt.Fprintf(w, "process_uptime_seconds %g\n", snap.uptime)
	}
}
