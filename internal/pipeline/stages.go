package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/lito/internal/events"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/metrics"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageScaffold   StageName = "scaffold"
	StageSync       StageName = "sync"
	StageSynthesize StageName = "synthesize"
	StageProvider   StageName = "provider"
	StageInstall    StageName = "install"
	StageBuild      StageName = "build"
	StageCollect    StageName = "collect"
	StageEject      StageName = "eject"
)

// StageErrorKind enumerates stage failure categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Pipeline aborts.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError wraps the failure of a single stage.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type stageFunc func(ctx context.Context, st *state) error

type stageDef struct {
	Name StageName
	Fn   stageFunc
}

// runStages executes stages in order, recording timing and stopping on the first error.
func (p *Pipeline) runStages(ctx context.Context, st *state, stages []stageDef) error {
	for _, sd := range stages {
		select {
		case <-ctx.Done():
			se := &StageError{Kind: StageErrorCanceled, Stage: sd.Name, Err: ctx.Err()}
			p.recorder.IncStageResult(string(sd.Name), metrics.ResultCanceled)
			return se
		default:
		}

		log := slog.With(logfields.RunID(p.runID), logfields.Stage(string(sd.Name)))
		log.Debug("Stage started")
		t0 := time.Now()
		err := sd.Fn(ctx, st)
		dur := time.Since(t0)
		st.durations[sd.Name] = dur

		result := metrics.ResultFor(err)
		if err != nil && ctx.Err() != nil {
			result = metrics.ResultCanceled
		}
		p.recorder.ObserveStageDuration(string(sd.Name), dur)
		p.recorder.IncStageResult(string(sd.Name), result)

		ev := events.Event{
			Type:       events.TypeStageCompleted,
			Stage:      string(sd.Name),
			DurationMS: dur.Milliseconds(),
		}
		if err != nil {
			ev.Error = err.Error()
		}
		p.publish(ctx, st.command, ev)

		if err != nil {
			kind := StageErrorFatal
			if result == metrics.ResultCanceled {
				kind = StageErrorCanceled
			}
			return &StageError{Kind: kind, Stage: sd.Name, Err: err}
		}
		log.Info("Stage completed", logfields.Duration(dur))
	}
	return nil
}
