// Package telemetry collects in-process counters and latency histograms and
// exposes them in Prometheus text format. Only operation names, providers and
// category labels are recorded; clinical text never enters the registry.
package telemetry

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Telemetry is the process-wide metrics registry.
type Telemetry struct {
	mu         sync.RWMutex
	counters   map[string]map[string]int64   // metric -> label set -> count
	histograms map[string]map[string]*histo  // metric -> label set -> histogram
}

// histo is a fixed-bucket latency histogram (milliseconds).
type histo struct {
	buckets [len(latencyBounds) + 1]int64
	sum     float64
	count   int64
}

var latencyBounds = [...]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// New creates an empty registry.
func New() *Telemetry {
	return &Telemetry{
		counters:   make(map[string]map[string]int64),
		histograms: make(map[string]map[string]*histo),
	}
}

func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", k, labels[k])
	}
	return b.String()
}

// Count increments a counter by one.
func (t *Telemetry) Count(metric string, labels map[string]string) {
	key := labelKey(labels)
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.counters[metric]
	if !ok {
		m = make(map[string]int64)
		t.counters[metric] = m
	}
	m[key]++
}

// Observe records a latency sample in milliseconds.
func (t *Telemetry) Observe(metric string, labels map[string]string, ms float64) {
	key := labelKey(labels)
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.histograms[metric]
	if !ok {
		m = make(map[string]*histo)
		t.histograms[metric] = m
	}
	h, ok := m[key]
	if !ok {
		h = &histo{}
		m[key] = h
	}
	idx := len(latencyBounds)
	for i, bound := range latencyBounds {
		if ms <= bound {
			idx = i
			break
		}
	}
	h.buckets[idx]++
	h.sum += ms
	h.count++
}

// CounterValue returns the current value of a counter, for tests and health
// reporting.
func (t *Telemetry) CounterValue(metric string, labels map[string]string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counters[metric][labelKey(labels)]
}

// ---------------------------------------------------------------------------
// Exposition
// ---------------------------------------------------------------------------

// Render writes all metrics in Prometheus text exposition format.
func (t *Telemetry) Render() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder

	names := make([]string, 0, len(t.counters))
	for name := range t.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "# TYPE %s counter\n", name)
		keys := make([]string, 0, len(t.counters[name]))
		for k := range t.counters[name] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "" {
				fmt.Fprintf(&b, "%s %d\n", name, t.counters[name][k])
			} else {
				fmt.Fprintf(&b, "%s{%s} %d\n", name, k, t.counters[name][k])
			}
		}
	}

	names = names[:0]
	for name := range t.histograms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "# TYPE %s histogram\n", name)
		keys := make([]string, 0, len(t.histograms[name]))
		for k := range t.histograms[name] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h := t.histograms[name][k]
			var cumulative int64
			for i, bound := range latencyBounds {
				cumulative += h.buckets[i]
				writeBucket(&b, name, k, fmt.Sprintf("%g", bound), cumulative)
			}
			cumulative += h.buckets[len(latencyBounds)]
			writeBucket(&b, name, k, "+Inf", cumulative)
			if k == "" {
				fmt.Fprintf(&b, "%s_sum %g\n", name, h.sum)
				fmt.Fprintf(&b, "%s_count %d\n", name, h.count)
			} else {
				fmt.Fprintf(&b, "%s_sum{%s} %g\n", name, k, h.sum)
				fmt.Fprintf(&b, "%s_count{%s} %d\n", name, k, h.count)
			}
		}
	}

	return b.String()
}

func writeBucket(b *strings.Builder, name, labels, le string, v int64) {
	if labels == "" {
		fmt.Fprintf(b, "%s_bucket{le=%q} %d\n", name, le, v)
	} else {
		fmt.Fprintf(b, "%s_bucket{%s,le=%q} %d\n", name, labels, le, v)
	}
}

// Handler serves the metrics endpoint.
func (t *Telemetry) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, t.Render())
	}
}

// Middleware records request counts and latencies per route.
func (t *Telemetry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			labels := map[string]string{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": fmt.Sprintf("%d", c.Response().Status),
			}
			t.Count("http_requests_total", labels)
			t.Observe("http_request_duration_ms", map[string]string{
				"method": c.Request().Method,
				"path":   c.Path(),
			}, float64(time.Since(start).Milliseconds()))
			return err
		}
	}
}
