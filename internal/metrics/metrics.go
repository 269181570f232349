package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

var (
	once sync.Once

	EntriesScanned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdiag_archive_entries_scanned_total",
			Help: "Total number of archive entries visited by the walker",
		},
	)
	UnsafeSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdiag_archive_unsafe_paths_total",
			Help: "Total number of entries skipped for unsafe paths",
		},
	)
	EntriesExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdiag_archive_entries_extracted_total",
			Help: "Total number of entries fully extracted",
		},
	)
	BytesExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdiag_archive_bytes_extracted_total",
			Help: "Total content bytes extracted from archives",
		},
	)
	PassesRun = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdiag_selector_passes_total",
			Help: "Total number of archive walk passes run by the selector",
		},
	)
)

// InitMetrics registers the counters with the default registry. The
// counters themselves are usable without registration, so library code can
// increment them unconditionally.
func InitMetrics() {
	once.Do(func() {
		prometheus.MustRegister(EntriesScanned)
		prometheus.MustRegister(UnsafeSkipped)
		prometheus.MustRegister(EntriesExtracted)
		prometheus.MustRegister(BytesExtracted)
		prometheus.MustRegister(PassesRun)
	})
}

// LogSummary emits the counter values at debug level, for end-of-run
// reporting in the CLI.
func LogSummary() {
	log.Debug().
		Float64("entries_scanned", counterValue(EntriesScanned)).
		Float64("unsafe_skipped", counterValue(UnsafeSkipped)).
		Float64("entries_extracted", counterValue(EntriesExtracted)).
		Float64("bytes_extracted", counterValue(BytesExtracted)).
		Float64("passes", counterValue(PassesRun)).
		Msg("archive walk metrics")
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
