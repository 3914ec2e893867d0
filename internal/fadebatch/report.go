package fadebatch

import (
	"time"

	"fadebatch/internal/preset"
	"fadebatch/internal/queue"
)

// ItemResult is the outcome of one attempted file.
type ItemResult struct {
	Index   int
	Path    string
	Outcome queue.Outcome
}

// Report summarizes a finished run. An empty queue yields the zero Report.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Cancelled  bool
	Total      int
	Processed  int
	Selection  preset.Selection
	Results    []ItemResult
}

// Empty reports whether the run did nothing.
func (r Report) Empty() bool {
	return r.RunID == ""
}

// Counts tallies results by outcome kind.
func (r Report) Counts() map[queue.OutcomeKind]int {
	counts := make(map[queue.OutcomeKind]int)
	for _, result := range r.Results {
		counts[result.Outcome.Kind]++
	}
	return counts
}

// Failed returns the number of attempted files that did not succeed.
func (r Report) Failed() int {
	failed := 0
	for _, result := range r.Results {
		if result.Outcome.Failed() {
			failed++
		}
	}
	return failed
}

// Record converts the report into its persisted form.
func (r Report) Record() (queue.Run, []queue.RunResult) {
	run := queue.Run{
		ID:             r.RunID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Cancelled:      r.Cancelled,
		Total:          r.Total,
		Processed:      r.Processed,
		FadeInPreset:   r.Selection.FadeInPreset,
		FadeOutPreset:  r.Selection.FadeOutPreset,
		FadeInSeconds:  r.Selection.FadeInSeconds,
		FadeOutSeconds: r.Selection.FadeOutSeconds,
	}
	results := make([]queue.RunResult, 0, len(r.Results))
	for _, result := range r.Results {
		results = append(results, queue.RunResult{
			Position: result.Index,
			Path:     result.Path,
			Outcome:  result.Outcome,
		})
	}
	return run, results
}
