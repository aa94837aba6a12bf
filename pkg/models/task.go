package models

import "fmt"

// TaskKind enumerates the user-triggered assistance tasks.
type TaskKind string

const (
	TaskInlineSuggest  TaskKind = "inline-suggest"
	TaskFix            TaskKind = "fix"
	TaskExplain        TaskKind = "explain"
	TaskGenerate       TaskKind = "generate"
	TaskUnitTest       TaskKind = "unit-test"
	TaskEdgeCase       TaskKind = "edge-case"
	TaskSecurityReview TaskKind = "security-review"
	TaskRiskFlag       TaskKind = "risk-flag"
)

// AllTaskKinds lists every task kind in a fixed order.
var AllTaskKinds = []TaskKind{
	TaskInlineSuggest,
	TaskFix,
	TaskExplain,
	TaskGenerate,
	TaskUnitTest,
	TaskEdgeCase,
	TaskSecurityReview,
	TaskRiskFlag,
}

// ParseTaskKind validates a task kind string from CLI or HTTP input.
func ParseTaskKind(s string) (TaskKind, error) {
	for _, k := range AllTaskKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown task kind: %q", s)
}

// ProducesCode reports whether the task's output is code that must carry the
// secure-defaults instruction block.
func (k TaskKind) ProducesCode() bool {
	switch k {
	case TaskInlineSuggest, TaskFix, TaskGenerate:
		return true
	}
	return false
}

// SuggestionMode is the configurable risk/verbosity policy for suggestions.
type SuggestionMode string

const (
	ModeSafe    SuggestionMode = "safe"
	ModeMinimal SuggestionMode = "minimal"
	ModeVerbose SuggestionMode = "verbose"
)

// Task is one transient assistance request: everything the prompt assembler
// needs, gathered up front so assembly itself stays pure.
type Task struct {
	Kind        TaskKind
	Persona     string // persona name; unknown names fall back to a generic bias
	ModelID     string
	LanguageID  string
	FileName    string

	// Task-specific body.
	Code          string // snippet / code up to cursor / code under review
	ContextBefore string // fix only
	ContextAfter  string // fix only
	Diagnostic    string // fix and explain
	Instruction   string // generate only

	ProjectStyle string
	ScanHints    []string // security-review pre-scan hints

	Mode          SuggestionMode
	ReasoningHint bool

	// MaxTokens overrides the task kind's default output budget when > 0.
	MaxTokens int
}
