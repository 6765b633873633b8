package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	require.Equal(t, "lito.pipeline.stage.completed", Subject("lito.pipeline", Event{Type: TypeStageCompleted}))
}

func TestEncode(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	data, err := Encode(Event{
		Type:       TypeStageCompleted,
		RunID:      "run-1",
		Command:    "build",
		Stage:      "sync_docs",
		DurationMS: 42,
		Timestamp:  at,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "stage.completed",
		"run_id": "run-1",
		"command": "build",
		"stage": "sync_docs",
		"duration_ms": 42,
		"timestamp": "2026-05-04T10:00:00Z"
	}`, string(data))
}

func TestEncode_FillsTimestamp(t *testing.T) {
	data, err := Encode(Event{Type: TypeDevResynced, Pages: []string{"a.md"}})
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.False(t, decoded.Timestamp.IsZero())
	require.Equal(t, []string{"a.md"}, decoded.Pages)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypePipelineStarted}))
	require.NoError(t, p.Close())
}
