package prompt

import (
	"fmt"
	"strings"

	"github.com/rolepilot/internal/roles"
)

// Enhancement records one transformation applied to a user prompt.
type Enhancement struct {
	Type         string `json:"type"`
	Description  string `json:"description"`
	Impact       string `json:"impact"`
	AddedContent string `json:"added_content,omitempty"`
}

// EnhancedPrompt is the outcome of prompt enhancement: the enriched text and
// a record of what was added, so the caller can show the user what changed.
type EnhancedPrompt struct {
	Original     string        `json:"original"`
	Enhanced     string        `json:"enhanced"`
	Enhancements []Enhancement `json:"enhancements"`
}

// EnhanceContext is the optional surrounding information the enhancer can
// fold into the prompt. Zero-value fields are simply skipped.
type EnhanceContext struct {
	FileName      string
	LanguageID    string
	ProjectType   string
	SelectedLines int
}

// Enhancer enriches free-form user prompts with persona bias, code patterns,
// and security guidance before they reach the model.
type Enhancer struct {
	personas *roles.Catalog
}

func NewEnhancer(personas *roles.Catalog) *Enhancer {
	return &Enhancer{personas: personas}
}

var rolePatterns = map[string][]string{
	"Laravel Developer": {
		"Use Eloquent ORM for database operations",
		"Follow Laravel naming conventions",
		"Use Service Container for dependency injection",
		"Implement proper validation using Form Requests",
	},
	"Core PHP Developer": {
		"Use PDO with prepared statements",
		"Implement proper error handling",
		"Use strict types (declare(strict_types=1))",
		"Follow PSR-12 coding standards",
	},
	"React Developer": {
		"Use functional components with hooks",
		"Implement proper TypeScript types",
		"Use React Query for server state",
		"Optimize with useMemo and useCallback",
	},
	"Backend Developer": {
		"Implement proper error handling and logging",
		"Use database transactions for data integrity",
		"Add input validation and sanitization",
		"Consider caching strategies",
	},
	"Frontend Developer": {
		"Ensure responsive design",
		"Implement proper accessibility",
		"Optimize images and assets",
		"Follow UI/UX best practices",
	},
	"QA Engineer": {
		"Write comprehensive test cases",
		"Include edge cases and boundary conditions",
		"Test for security vulnerabilities",
		"Validate error handling",
	},
}

var bestPractices = []string{
	"Write clean, maintainable code",
	"Add appropriate comments for complex logic",
	"Follow SOLID principles",
	"Implement proper error handling",
	"Consider performance implications",
}

var securityGuidelines = []string{
	"Validate and sanitize all user inputs",
	"Use parameterized queries to prevent SQL injection",
	"Implement proper authentication and authorization",
	"Protect against XSS attacks",
	"Use HTTPS and secure connections",
}

// Enhance layers context, persona bias, code patterns, best practices, and
// security guidance onto the user prompt, in that order.
func (e *Enhancer) Enhance(userPrompt, personaName string, ec EnhanceContext) EnhancedPrompt {
	out := EnhancedPrompt{Original: userPrompt, Enhanced: userPrompt}

	if add, en := contextAddition(ec); add != "" {
		out.Enhanced += add
		out.Enhancements = append(out.Enhancements, en...)
	}
	if add, en := e.roleAddition(personaName); add != "" {
		out.Enhanced += add
		out.Enhancements = append(out.Enhancements, en...)
	}
	if add, en := patternAddition(personaName); add != "" {
		out.Enhanced += add
		out.Enhancements = append(out.Enhancements, en...)
	}

	practices := "\n\nBest Practices:\n- " + strings.Join(bestPractices, "\n- ")
	out.Enhanced += practices
	out.Enhancements = append(out.Enhancements, Enhancement{
		Type:         "bestpractice",
		Description:  "Added general best practices",
		Impact:       "medium",
		AddedContent: practices,
	})

	security := "\n\nSecurity Considerations:\n- " + strings.Join(securityGuidelines, "\n- ")
	out.Enhanced += security
	out.Enhancements = append(out.Enhancements, Enhancement{
		Type:         "security",
		Description:  "Added security guidelines",
		Impact:       "high",
		AddedContent: security,
	})

	return out
}

func contextAddition(ec EnhanceContext) (string, []Enhancement) {
	var b strings.Builder
	var ens []Enhancement

	if ec.FileName != "" && ec.LanguageID != "" {
		base := ec.FileName
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		fmt.Fprintf(&b, "\n\nCurrent Context:\n- File: %s\n- Language: %s", base, ec.LanguageID)
		ens = append(ens, Enhancement{
			Type:         "context",
			Description:  "Added current file context",
			Impact:       "medium",
			AddedContent: "File: " + ec.LanguageID,
		})
	}
	if ec.ProjectType != "" {
		fmt.Fprintf(&b, "\n- Project Type: %s", ec.ProjectType)
		ens = append(ens, Enhancement{
			Type:         "context",
			Description:  "Added project type context",
			Impact:       "high",
			AddedContent: "Project: " + ec.ProjectType,
		})
	}
	if ec.SelectedLines > 0 {
		fmt.Fprintf(&b, "\n- Selected Code: Yes (%d lines)", ec.SelectedLines)
		ens = append(ens, Enhancement{
			Type:        "context",
			Description: "Added selected code context",
			Impact:      "high",
		})
	}
	return b.String(), ens
}

func (e *Enhancer) roleAddition(personaName string) (string, []Enhancement) {
	p, ok := e.personas.FindByName(personaName)
	if !ok {
		return "", nil
	}
	add := fmt.Sprintf("\n\nRole Context: You are acting as a %s.\nFocus on: %s.\nApproach: %s",
		p.Name, strings.Join(p.FocusAreas, ", "), p.PromptBias)
	return add, []Enhancement{{
		Type:         "role",
		Description:  fmt.Sprintf("Added %s context", p.Name),
		Impact:       "high",
		AddedContent: add,
	}}
}

func patternAddition(personaName string) (string, []Enhancement) {
	patterns := rolePatterns[personaName]
	if len(patterns) == 0 {
		return "", nil
	}
	add := "\n\nCode Patterns to Follow:\n- " + strings.Join(patterns, "\n- ")
	return add, []Enhancement{{
		Type:         "pattern",
		Description:  fmt.Sprintf("Added %d code patterns", len(patterns)),
		Impact:       "medium",
		AddedContent: add,
	}}
}
