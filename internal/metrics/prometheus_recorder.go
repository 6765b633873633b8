package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "lito"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg               *prom.Registry
	stageDuration     *prom.HistogramVec
	stageResults      *prom.CounterVec
	pipelineDuration  *prom.HistogramVec
	pipelineOutcome   *prom.CounterVec
	toolchainDuration *prom.HistogramVec
	pagesSynced       prom.Gauge
	resyncs           *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pipeline metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		pipelineDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Total pipeline duration by command",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"command"}),
		pipelineOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_outcomes_total",
			Help:      "Pipeline outcomes by command and final status",
		}, []string{"command", "result"}),
		toolchainDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "toolchain_duration_seconds",
			Help:      "Duration of external toolchain invocations",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600},
		}, []string{"operation", "runner", "result"}),
		pagesSynced: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_synced",
			Help:      "Number of pages present after the last document sync",
		}),
		resyncs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dev_resyncs_total",
			Help:      "Dev-mode resyncs by trigger",
		}, []string{"trigger"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.pipelineDuration,
		pr.pipelineOutcome, pr.toolchainDuration, pr.pagesSynced, pr.resyncs)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePipelineDuration(command string, d time.Duration) {
	p.pipelineDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPipelineOutcome(command string, result ResultLabel) {
	p.pipelineOutcome.WithLabelValues(command, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveToolchainDuration(operation, runner string, d time.Duration, result ResultLabel) {
	p.toolchainDuration.WithLabelValues(operation, runner, string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetPagesSynced(n int) {
	p.pagesSynced.Set(float64(n))
}

func (p *PrometheusRecorder) IncResync(trigger string) {
	p.resyncs.WithLabelValues(trigger).Inc()
}

// WriteTextfile writes the registry to path in the text exposition format.
// The write goes through a temp file so collectors never read a partial file.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
