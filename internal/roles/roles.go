package roles

import (
	"regexp"
	"strings"

	"github.com/rolepilot/pkg/models"
)

// Catalog provides persona lookup and file-based auto-detection over an
// ordered persona list. Lookups return an absent result, never an error;
// callers decide fallback behavior.
type Catalog struct {
	personas []models.Persona
}

// NewCatalog builds a catalog over the given personas, preserving order.
func NewCatalog(personas []models.Persona) *Catalog {
	return &Catalog{personas: personas}
}

// NewDefaultCatalog builds a catalog over the built-in persona table.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultPersonas)
}

// List returns the personas in declaration order.
func (c *Catalog) List() []models.Persona {
	out := make([]models.Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// FindByName looks a persona up by its display name.
func (c *Catalog) FindByName(name string) (models.Persona, bool) {
	for _, p := range c.personas {
		if p.Name == name {
			return p, true
		}
	}
	return models.Persona{}, false
}

// FindByCode looks a persona up by its short code.
func (c *Catalog) FindByCode(code string) (models.Persona, bool) {
	for _, p := range c.personas {
		if p.Code == code {
			return p, true
		}
	}
	return models.Persona{}, false
}

// MatchFile reports whether fileName matches any of the persona's file
// patterns. Patterns use * and ? wildcards, compiled to a case-insensitive,
// unanchored regular expression, so a pattern may match anywhere in the name.
func (c *Catalog) MatchFile(fileName string, p models.Persona) bool {
	for _, pattern := range p.FilePatterns {
		if matchesPattern(fileName, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(fileName, pattern string) bool {
	// Literal wildcard substitution, nothing else is escaped. "*.php" becomes
	// ".*.php", which is how the matcher has always behaved.
	expr := strings.ReplaceAll(pattern, "*", ".*")
	expr = strings.ReplaceAll(expr, "?", ".")
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return false
	}
	return re.MatchString(fileName)
}

// languagePersonas maps editor language identifiers to persona names for
// files whose name matches no pattern.
var languagePersonas = map[string]string{
	"php":             "Core PHP Developer",
	"javascript":      "Frontend Developer",
	"typescript":      "Backend Developer",
	"typescriptreact": "React Developer",
	"javascriptreact": "React Developer",
	"python":          "Backend Developer",
	"markdown":        "Project Manager",
}

// AutoDetect returns the name of the first persona whose file patterns match
// fileName, walking personas and their patterns in declared order. When no
// pattern matches it falls back to the language map; ("", false) means no
// persona was detected.
func (c *Catalog) AutoDetect(fileName, languageID string) (string, bool) {
	for _, p := range c.personas {
		for _, pattern := range p.FilePatterns {
			if matchesPattern(fileName, pattern) {
				return p.Name, true
			}
		}
	}
	if name, ok := languagePersonas[languageID]; ok {
		return name, true
	}
	return "", false
}
