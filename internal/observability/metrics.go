package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	resolutions   map[domain.ResolutionMethod]int64
	splitCount    int64
	degradedCount map[string]int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests    map[string]int64 `json:"requests"`
	Errors      map[string]int64 `json:"errors"`
	Resolutions map[string]int64 `json:"resolutions"`
	Splits      int64            `json:"split_shipments"`
	Degraded    map[string]int64 `json:"upstream_degraded"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		resolutions:   make(map[domain.ResolutionMethod]int64),
		degradedCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordResolution counts one finished resolution by method.
func (m *Metrics) RecordResolution(method domain.ResolutionMethod, split bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[method]++
	if split {
		m.splitCount++
	}
}

// RecordDegraded counts a provider call that failed and was skipped.
func (m *Metrics) RecordDegraded(provider string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degradedCount[provider]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:    map[string]int64{},
		Errors:      map[string]int64{},
		Resolutions: map[string]int64{},
		Degraded:    map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.resolutions {
		snap.Resolutions[string(k)] = v
	}
	for k, v := range m.degradedCount {
		snap.Degraded[k] = v
	}
	snap.Splits = m.splitCount
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
