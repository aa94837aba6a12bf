package prompt

import (
	"regexp"
	"strings"
)

// Heuristic pre-scan feeding hints into the security-review prompt. These
// are coarse signals for the model to verify, not findings.

var (
	secretAssignRe = regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password)\s*=\s*['"][^'"]+['"]`)
	secretTokenRe  = regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`)
)

// QuickScan returns short risk labels found in the code: raw SQL built from
// user input, weak password handling, and hardcoded secrets.
func QuickScan(code string) []string {
	var hints []string
	lower := strings.ToLower(code)

	hasSQL := strings.Contains(lower, "select ") || strings.Contains(lower, "insert ") ||
		strings.Contains(lower, "delete ") || strings.Contains(lower, "update ")
	hasUserInput := strings.Contains(code, "$_GET") || strings.Contains(code, "$_POST") ||
		(strings.Contains(code, "+") && strings.Contains(code, `"`) && strings.Contains(lower, "where"))
	if hasSQL && hasUserInput {
		hints = append(hints, "Possible SQL injection risk: raw query with user input (e.g. $_GET/$_POST). Use prepared statements.")
	}

	if strings.Contains(lower, "password") &&
		(strings.Contains(lower, "=") || strings.Contains(lower, "md5") || strings.Contains(lower, "sha1")) &&
		!strings.Contains(lower, "password_hash") && !strings.Contains(lower, "bcrypt") {
		hints = append(hints, "Possible insecure auth: password stored or compared without password_hash/bcrypt.")
	}

	if secretAssignRe.MatchString(code) || secretTokenRe.MatchString(code) {
		hints = append(hints, "Possible hardcoded secret: API key, password, or token in plain text. Use env vars or config.")
	}

	return hints
}
