package prompt

import (
	"fmt"
	"strings"

	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/pkg/models"
)

// Assembler deterministically builds the ordered message list for a task.
// Pure string construction: no network, no editor state, no clock.
type Assembler struct {
	personas *roles.Catalog
}

// NewAssembler creates an assembler over the given persona catalog.
func NewAssembler(personas *roles.Catalog) *Assembler {
	return &Assembler{personas: personas}
}

// kindSpec holds the per-kind pieces dispatched through the assembler table.
type kindSpec struct {
	system    func(a *Assembler, t models.Task) string
	user      func(t models.Task) string
	maxTokens int
}

// assemblers maps every task kind to its spec. Adding a kind means adding an
// entry here; Assemble refuses kinds it does not know.
var assemblers = map[models.TaskKind]kindSpec{
	models.TaskInlineSuggest: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, InlineRules) },
		user:      inlineUser,
		maxTokens: 64,
	},
	models.TaskFix: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, FixRules) },
		user:      fixUser,
		maxTokens: 1024,
	},
	models.TaskExplain: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, ExplainRules) },
		user:      explainUser,
		maxTokens: 1024,
	},
	models.TaskGenerate: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, GenerateRules) },
		user:      func(t models.Task) string { return t.Instruction },
		maxTokens: 4096,
	},
	models.TaskUnitTest: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, UnitTestRules) },
		user:      unitTestUser,
		maxTokens: 4096,
	},
	models.TaskEdgeCase: {
		system:    func(a *Assembler, t models.Task) string { return a.developerSystem(t, EdgeCaseRules) },
		user:      edgeCaseUser,
		maxTokens: 4096,
	},
	models.TaskSecurityReview: {
		system:    func(a *Assembler, t models.Task) string { return reviewerSystem(SecurityReviewerSystem, t) },
		user:      securityReviewUser,
		maxTokens: 1024,
	},
	models.TaskRiskFlag: {
		system:    func(a *Assembler, t models.Task) string { return reviewerSystem(RiskReviewerSystem, t) },
		user:      riskFlagUser,
		maxTokens: 1024,
	},
}

// Assemble builds the exchange for a task. It cannot fail for known kinds;
// an unknown persona degrades to the generic bias instead of erroring.
func (a *Assembler) Assemble(t models.Task) (models.Exchange, error) {
	spec, ok := assemblers[t.Kind]
	if !ok {
		return models.Exchange{}, fmt.Errorf("unknown task kind: %q", t.Kind)
	}

	maxTokens := spec.maxTokens
	if t.MaxTokens > 0 {
		maxTokens = t.MaxTokens
	}

	return models.Exchange{
		ModelID:   t.ModelID,
		MaxTokens: maxTokens,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: spec.system(a, t)},
			{Role: models.RoleUser, Content: spec.user(t)},
		},
	}, nil
}

// developerSystem assembles the persona-conditioned system prompt in its
// fixed section order: identity, bias, anti-hallucination/mode, task rules,
// security block, project style.
func (a *Assembler) developerSystem(t models.Task, taskRules string) string {
	bias := GenericBias
	focus := "best practices"
	if p, ok := a.personas.FindByName(t.Persona); ok {
		bias = p.PromptBias
		if len(p.FocusAreas) > 0 {
			focus = strings.Join(p.FocusAreas, ", ")
		}
	}

	var b strings.Builder
	b.WriteString(IdentityPrefix)
	b.WriteString(t.Persona)
	b.WriteString(".\n\n")
	b.WriteString("Your approach: ")
	b.WriteString(bias)
	b.WriteString("\nFocus areas for this role: ")
	b.WriteString(focus)

	b.WriteString("\n\n")
	b.WriteString(modeInstructions(t))

	b.WriteString("\n\n")
	b.WriteString(taskRules)

	if t.Kind.ProducesCode() {
		b.WriteString("\n\n")
		b.WriteString(SecurityBlock)
	}

	if t.ProjectStyle != "" {
		b.WriteString("\n\n")
		b.WriteString(t.ProjectStyle)
	}

	return b.String()
}

// reviewerSystem assembles the fixed-identity system prompt for the review
// report tasks. The developer persona and project style do not apply.
func reviewerSystem(identity string, _ models.Task) string {
	return identity
}

// modeInstructions returns the anti-hallucination clause plus, for suggestion
// tasks, the configured mode string and the optional reasoning hint.
func modeInstructions(t models.Task) string {
	parts := []string{AntiHallucination}

	switch t.Kind {
	case models.TaskInlineSuggest, models.TaskGenerate, models.TaskFix:
		switch t.Mode {
		case models.ModeMinimal:
			parts = append(parts, ModeMinimalInstructions)
		case models.ModeVerbose:
			parts = append(parts, ModeVerboseInstructions)
		default:
			parts = append(parts, ModeSafeInstructions)
		}
	}

	if t.ReasoningHint && (t.Kind == models.TaskInlineSuggest || t.Kind == models.TaskGenerate) {
		parts = append(parts, ReasoningHintInstruction)
	}

	return strings.Join(parts, " ")
}

func inlineUser(t models.Task) string {
	return fmt.Sprintf("Language: %s\n\nCode up to cursor:\n```\n%s\n```\n\nSuggest only the next 1-3 lines (role: %s, no duplication):",
		t.LanguageID, t.Code, t.Persona)
}

func fixUser(t models.Task) string {
	return fmt.Sprintf("Issue: %s\n\nLanguage: %s\n\nCode BEFORE the snippet:\n```\n%s\n```\n\n[SNIPPET TO FIX]:\n```\n%s\n```\n\nCode AFTER the snippet:\n```\n%s\n```\n\nOutput only the fixed snippet (minimal change, preserve structure):",
		t.Diagnostic, t.LanguageID, t.ContextBefore, t.Code, t.ContextAfter)
}

func explainUser(t models.Task) string {
	return fmt.Sprintf("Issue: %s\n\nLanguage: %s\n\nCode:\n```\n%s\n```\n\nExplain the problem and the fix:",
		t.Diagnostic, t.LanguageID, t.Code)
}

func unitTestUser(t models.Task) string {
	return fmt.Sprintf("Language: %s\n\nCode to test:\n```\n%s\n```\n\nGenerate unit tests for this code. Output only the test code.",
		t.LanguageID, t.Code)
}

func edgeCaseUser(t models.Task) string {
	return fmt.Sprintf("Language: %s\n\nCode to cover with edge cases:\n```\n%s\n```\n\nGenerate edge-case tests. Output only the test code.",
		t.LanguageID, t.Code)
}

func securityReviewUser(t models.Task) string {
	var hints string
	if len(t.ScanHints) > 0 {
		var b strings.Builder
		b.WriteString("\nQuick-scan hints (check these):\n")
		for _, h := range t.ScanHints {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
		hints = b.String()
	}
	return fmt.Sprintf("Language: %s\n\nCode to review:\n```\n%s\n```\n%s\nProvide a short security review (markdown).",
		t.LanguageID, t.Code, hints)
}

func riskFlagUser(t models.Task) string {
	return fmt.Sprintf("Language: %s\n\nCode to analyze:\n```\n%s\n```\n\nFlag untested or risky logic. Output a short markdown report.",
		t.LanguageID, t.Code)
}
