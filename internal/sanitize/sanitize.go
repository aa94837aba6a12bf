package sanitize

import (
	"regexp"
	"strings"

	"github.com/rolepilot/pkg/models"
)

// Model output cleanup: strip markdown fences the model was told not to emit
// anyway, and cap the result to the task's allowed shape.

const fenceMarker = "```"

var openingFenceRe = regexp.MustCompile("^```[\\w]*\n?")

// Clean trims raw model output, strips a leading code fence (with optional
// language tag), truncates at the last closing fence, and keeps at most
// maxLines lines (0 means unbounded). An empty result is a valid negative
// outcome, not an error; callers report "nothing generated".
func Clean(raw string, maxLines int) string {
	text := strings.TrimSpace(raw)

	if loc := openingFenceRe.FindString(text); loc != "" {
		text = text[len(loc):]
	}

	// Truncate at the LAST closing fence. A malformed response whose only
	// fence precedes the content degenerates to empty, which step 5 handles.
	if idx := strings.LastIndex(text, fenceMarker); idx != -1 {
		text = strings.TrimSpace(text[:idx])
	}

	if maxLines > 0 {
		lines := strings.Split(text, "\n")
		if len(lines) > maxLines {
			text = strings.TrimSpace(strings.Join(lines[:maxLines], "\n"))
		}
	}

	return strings.TrimSpace(text)
}

// MaxLinesFor returns the task's output line cap: 3 for inline suggestions,
// min(snippetLines+3, 12) for fixes, unbounded for everything else.
func MaxLinesFor(kind models.TaskKind, snippetLines int) int {
	switch kind {
	case models.TaskInlineSuggest:
		return 3
	case models.TaskFix:
		max := snippetLines + 3
		if max > 12 {
			max = 12
		}
		return max
	}
	return 0
}
