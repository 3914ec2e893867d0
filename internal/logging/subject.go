package logging

import "strings"

// FormatSubject builds the run/item/stage subject string used in console output.
// Run IDs are shortened to their first block.
func FormatSubject(runID, item, stage string) string {
	runID = strings.TrimSpace(runID)
	item = strings.TrimSpace(item)
	stage = strings.TrimSpace(stage)
	if idx := strings.IndexByte(runID, '-'); idx > 0 {
		runID = runID[:idx]
	}
	parts := make([]string, 0, 3)
	if runID != "" {
		parts = append(parts, "Run "+runID)
	}
	switch {
	case item != "" && item != "." && stage != "":
		parts = append(parts, item+" ("+stage+")")
	case item != "" && item != ".":
		parts = append(parts, item)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
