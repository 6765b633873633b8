package pipeline

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lito/internal/events"
	"git.home.luguber.info/inful/lito/internal/testutil"
)

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"docs/intro.md":        false,
		"docs/.intro.md.swp":   true,
		"docs/intro.md~":       true,
		"docs/#intro.md#":      true,
		"docs/.DS_Store":       true,
		"docs/Thumbs.db":       true,
		"docs/guide/setup.mdx": false,
	}
	for path, want := range cases {
		require.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for range 5 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("debounced request not delivered")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDev_ResyncsOnDocChange(t *testing.T) {
	h := newHarness(t, WithDebounce(20*time.Millisecond))
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "index.md", "# Home\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- h.pipeline.Dev(ctx, Options{DocsDir: docs, TemplateDir: newTemplate(t), Port: 5000})
	}()

	require.Eventually(t, func() bool {
		return slices.Contains(h.exec.commands(), "npx astro dev --port 5000")
	}, 5*time.Second, 10*time.Millisecond)

	testutil.WriteFile(t, docs, "guide/new-page.md", "New\n")

	require.Eventually(t, func() bool {
		for _, e := range h.events.ofType(events.TypeDevResynced) {
			if slices.Contains(e.Pages, "guide/new-page.md") {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	require.FileExists(t, filepath.Join(h.ws.Path(), "src", "pages", "guide", "new-page.md"))

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Dev did not return after cancellation")
	}
	require.NoDirExists(t, h.ws.Path())
	require.Equal(t, []string{"npm install", "npx astro dev --port 5000"}, h.exec.commands())
}

func TestDev_PeriodicResync(t *testing.T) {
	h := newHarness(t, WithResyncInterval(50*time.Millisecond))
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "index.md", "# Home\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.pipeline.Dev(ctx, Options{DocsDir: docs, TemplateDir: newTemplate(t)}) }()

	require.Eventually(t, func() bool {
		return len(h.events.ofType(events.TypeDevResynced)) > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
