// Package metrics defines the optional instrumentation surface for the
// udp and tcp stream backings (mem has none). A StreamMetrics is
// nil-safe: every call site in udp/tcp guards on a nil value, so a caller
// who never enables metrics pays no instrumentation cost.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics is implemented by a metrics backend for the stream
// backings. All methods must tolerate a nil receiver.
type StreamMetrics interface {
	// ObserveEncode records a completed encode-side flush: the number of
	// octets written and how long it took.
	ObserveEncode(backing string, bytes int, d time.Duration)

	// ObserveDecode records a completed decode-side fill: the number of
	// octets read and how long it took.
	ObserveDecode(backing string, bytes int, d time.Duration)

	// RecordFragment records a TCP record-marking fragment's length.
	RecordFragment(backing string, bytes int)

	// RecordError records a stream operation that returned an error,
	// tagged by its Kind string.
	RecordError(backing string, kind string)
}

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
	enabled  bool

	// newStreamMetrics is set by metrics/prometheus's init, breaking the
	// import cycle that a direct dependency on that package would create.
	newStreamMetrics func(*prometheus.Registry) StreamMetrics
)

// RegisterConstructor is called by metrics/prometheus's init to install
// the Prometheus-backed StreamMetrics constructor.
func RegisterConstructor(constructor func(*prometheus.Registry) StreamMetrics) {
	mu.Lock()
	defer mu.Unlock()
	newStreamMetrics = constructor
}

// InitRegistry enables metrics collection against reg. Passing nil
// creates a fresh prometheus.Registry.
func InitRegistry(reg *prometheus.Registry) {
	mu.Lock()
	defer mu.Unlock()
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	registry = reg
	enabled = true
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// GetRegistry returns the active registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// NewStreamMetrics returns a StreamMetrics backed by the active registry,
// or nil if metrics are disabled -- callers pass the nil straight into a
// stream backing's Config for zero-overhead operation.
func NewStreamMetrics() StreamMetrics {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled || newStreamMetrics == nil {
		return nil
	}
	return newStreamMetrics(registry)
}
