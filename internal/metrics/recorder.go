package metrics

import "time"

// ResultLabel enumerates outcome labels for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// ResultFor maps an error to its outcome label.
func ResultFor(err error) ResultLabel {
	if err == nil {
		return ResultSuccess
	}
	return ResultFailed
}

// Recorder is the set of observations the pipeline emits.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObservePipelineDuration(command string, d time.Duration)
	IncPipelineOutcome(command string, result ResultLabel)
	ObserveToolchainDuration(operation, runner string, d time.Duration, result ResultLabel)
	SetPagesSynced(n int)
	IncResync(trigger string)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)                          {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                                  {}
func (NoopRecorder) ObservePipelineDuration(string, time.Duration)                       {}
func (NoopRecorder) IncPipelineOutcome(string, ResultLabel)                              {}
func (NoopRecorder) ObserveToolchainDuration(string, string, time.Duration, ResultLabel) {}
func (NoopRecorder) SetPagesSynced(int)                                                  {}
func (NoopRecorder) IncResync(string)                                                    {}
