// Package metrics defines the prometheus metric types packetgen's CLI
// reports after a run, and the convenience to dump them for a
// node_exporter-style textfile collector — packetgen is a one-shot
// batch job, not a long-running service, so there is no /metrics
// endpoint to scrape; a CI pipeline instead reads the written textfile
// directly or feeds it to node_exporter's textfile collector directory.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsGenerated counts packets emitted, per run and per driver
	// mode (spec.md §4.6).
	PacketsGenerated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "packetgen_packets_generated",
			Help: "packets present in the most recent generation run",
		},
		[]string{"mode"})

	// DeltaPacketsGenerated counts the delta-enabled subset of
	// PacketsGenerated.
	DeltaPacketsGenerated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "packetgen_delta_packets_generated",
			Help: "delta-enabled packets present in the most recent generation run",
		},
		[]string{"mode"})

	// VariantsGenerated counts capability variants expanded across all
	// packets (spec.md §4.2).
	VariantsGenerated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "packetgen_capability_variants_generated",
			Help: "capability variants expanded in the most recent generation run",
		},
		[]string{"mode"})

	// GenerationErrors counts failed Generate invocations, by the
	// pipeline stage that failed.
	GenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packetgen_generation_errors_total",
			Help: "generation failures, by pipeline stage",
		},
		[]string{"stage"})
)

// WriteTextfile dumps the current metric values to path in the
// Prometheus text exposition format, for node_exporter's textfile
// collector. Gathering the default (promauto-registered) registry is
// sufficient here: packetgen runs once per process and exits, so
// there is never a second registration to collide with.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
