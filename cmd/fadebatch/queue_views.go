package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"fadebatch/internal/queue"
)

var timeNow = time.Now

type queueItemJSON struct {
	Index       int    `json:"index"`
	Path        string `json:"path"`
	FileName    string `json:"file_name"`
	Directory   string `json:"directory"`
	OutcomeKind string `json:"outcome,omitempty"`
	OutcomeCode string `json:"outcome_code,omitempty"`
	Message     string `json:"message,omitempty"`
	AddedAt     string `json:"added_at,omitempty"`
}

func buildQueueListJSON(items []queue.Item) []queueItemJSON {
	out := make([]queueItemJSON, 0, len(items))
	for i, item := range items {
		entry := queueItemJSON{
			Index:       i + 1,
			Path:        item.Path(),
			FileName:    item.FileName,
			Directory:   item.Directory,
			OutcomeKind: string(item.Outcome.Kind),
			OutcomeCode: item.Outcome.Code,
			Message:     item.Outcome.Message,
		}
		if !item.CreatedAt.IsZero() {
			entry.AddedAt = item.CreatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, entry)
	}
	return out
}

func buildQueueListRows(items []queue.Item, now time.Time) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.FileName,
			item.Directory,
			outcomeLabel(item.Outcome),
			relativeTime(item.CreatedAt, now),
		})
	}
	return rows
}

func outcomeLabel(o queue.Outcome) string {
	if o.IsZero() {
		return "-"
	}
	return o.String()
}

func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
