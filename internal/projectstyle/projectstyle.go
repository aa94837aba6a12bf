// Package projectstyle builds a short description of a project's formatting
// and layout conventions, injected into prompts so generated code never
// fights the surrounding codebase.
package projectstyle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxFileSize = 8192

	styleHeader   = "Project style (follow exactly; never fight this):"
	contextHeader = "Project context (whole-project; use this, never break it):"
	styleRule     = "Never fight the project's style guide. Generated code must comply with the project's linter/formatter (ESLint, Prettier, PHP-CS-Fixer) when present."
)

// Describe inspects the project rooted at dir and returns the style string,
// empty when the directory yields nothing. The result is opaque prompt text;
// callers never parse it.
func Describe(dir string) string {
	if dir == "" {
		return ""
	}

	var parts []string

	if s := prettierStyle(dir); s != "" {
		parts = append(parts, s)
	}
	if s := eslintStyle(dir); s != "" {
		parts = append(parts, s)
	}
	if s := phpCsFixerStyle(dir); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, namingConventions(dir)...)

	folders := topFolders(dir)
	if len(folders) > 0 {
		parts = append(parts, "Folder structure: "+strings.Join(folders, ", "))
	}

	framework, structure := frameworkAndStructure(dir, folders)
	var contextParts []string
	if framework != "" {
		contextParts = append(contextParts, fmt.Sprintf("Framework: %s. Use its conventions and project structure.", framework))
	}
	if len(structure) > 0 {
		contextParts = append(contextParts, fmt.Sprintf("Key paths: %s. Respect this layout and naming.", strings.Join(structure, ", ")))
	}
	contextParts = append(contextParts,
		"Respect existing patterns, naming, and architecture. Match conventions used elsewhere in the project.",
		"Do not suggest code that breaks existing flows, duplicates logic, or contradicts patterns already in the project.",
		styleRule,
	)

	contextBlock := contextHeader + "\n- " + strings.Join(contextParts, "\n- ")
	if len(parts) == 0 {
		return contextBlock
	}
	styleBlock := styleHeader + "\n- " + strings.Join(parts, "\n- ") +
		"\n- Naming and formatting must match existing project files.\n- " + styleRule
	return styleBlock + "\n\n" + contextBlock
}

// readSmallFile returns the file contents, or empty when missing or over the
// size cap. Oversized configs are skipped rather than truncated.
func readSmallFile(dir, rel string) string {
	path := filepath.Join(dir, rel)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > maxFileSize {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func topFolders(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" {
			continue
		}
		dirs = append(dirs, name)
		if len(dirs) == 20 {
			break
		}
	}
	return dirs
}

func subdirs(dir, parent string) []string {
	entries, err := os.ReadDir(filepath.Join(dir, parent))
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, parent+"/"+e.Name())
		if len(out) == 15 {
			break
		}
	}
	return out
}

func prettierStyle(dir string) string {
	candidates := []string{".prettierrc", ".prettierrc.json", ".prettierrc.yaml", ".prettierrc.yml", "prettier.config.js", "prettier.config.cjs"}
	for _, p := range candidates {
		content := readSmallFile(dir, p)
		if content == "" {
			continue
		}
		if lines := parsePrettier(content); len(lines) > 0 {
			return "Prettier: " + strings.Join(lines, ", ")
		}
		return "Prettier: configured (follow project formatting)"
	}

	// A prettier block embedded in package.json counts too.
	if pkg := readSmallFile(dir, "package.json"); pkg != "" {
		var parsed struct {
			Prettier map[string]any `json:"prettier"`
		}
		if json.Unmarshal([]byte(pkg), &parsed) == nil && len(parsed.Prettier) > 0 {
			raw, _ := json.Marshal(parsed.Prettier)
			if lines := parsePrettier(string(raw)); len(lines) > 0 {
				return "Prettier (package.json): " + strings.Join(lines, ", ")
			}
		}
	}
	return ""
}

var tabWidthRe = regexp.MustCompile(`tabWidth[\s:]+(\d+)`)

func parsePrettier(content string) []string {
	var lines []string
	var opts map[string]any
	if json.Unmarshal([]byte(content), &opts) == nil {
		if v, ok := opts["tabWidth"]; ok {
			lines = append(lines, fmt.Sprintf("tabWidth %v", v))
		}
		if v, ok := opts["useTabs"]; ok {
			lines = append(lines, fmt.Sprintf("useTabs %v", v))
		}
		if v, ok := opts["singleQuote"]; ok {
			quote := "double"
			if b, isBool := v.(bool); isBool && b {
				quote = "single"
			}
			lines = append(lines, "quotes "+quote)
		}
		if v, ok := opts["semi"]; ok {
			lines = append(lines, fmt.Sprintf("semicolons %v", v))
		}
		if v, ok := opts["printWidth"]; ok {
			lines = append(lines, fmt.Sprintf("printWidth %v", v))
		}
		if v, ok := opts["bracketSpacing"]; ok {
			lines = append(lines, fmt.Sprintf("bracketSpacing %v", v))
		}
		if v, ok := opts["trailingComma"]; ok {
			lines = append(lines, fmt.Sprintf("trailingComma %v", v))
		}
		if v, ok := opts["arrowParens"]; ok {
			lines = append(lines, fmt.Sprintf("arrowParens %v", v))
		}
		return lines
	}

	// JS config files never parse as JSON; fall back to substring scans.
	if strings.Contains(content, "singleQuote") || strings.Contains(content, "single") {
		lines = append(lines, "quotes single")
	}
	if m := tabWidthRe.FindStringSubmatch(content); m != nil {
		lines = append(lines, "tabWidth "+m[1])
	}
	if strings.Contains(content, "trailingComma") {
		lines = append(lines, "trailingComma configured")
	}
	if strings.Contains(content, "arrowParens") {
		lines = append(lines, "arrowParens configured")
	}
	return lines
}

func eslintStyle(dir string) string {
	candidates := []string{".eslintrc", ".eslintrc.json", ".eslintrc.js", ".eslintrc.cjs", "eslint.config.js"}
	for _, p := range candidates {
		content := readSmallFile(dir, p)
		if content == "" {
			continue
		}
		if lines := parseEslint(content); len(lines) > 0 {
			return "ESLint: " + strings.Join(lines, ", ")
		}
	}
	return ""
}

func parseEslint(content string) []string {
	var parsed struct {
		Rules   map[string]any `json:"rules"`
		Extends any            `json:"extends"`
	}
	if json.Unmarshal([]byte(content), &parsed) != nil {
		if strings.Contains(content, "indent") || strings.Contains(content, "quotes") {
			return []string{"ESLint style configured"}
		}
		return []string{"ESLint configured"}
	}

	var lines []string
	if v, ok := parsed.Rules["indent"]; ok {
		indent := "configured"
		if arr, isArr := v.([]any); isArr && len(arr) > 0 {
			v = arr[0]
		}
		if n, isNum := v.(float64); isNum {
			indent = fmt.Sprintf("%d", int(n))
		}
		lines = append(lines, "indent: "+indent)
	}
	if v, ok := parsed.Rules["quotes"]; ok {
		q := ruleValue(v)
		switch {
		case strings.Contains(q, "single"):
			lines = append(lines, "quotes: single")
		case strings.Contains(q, "double"):
			lines = append(lines, "quotes: double")
		default:
			lines = append(lines, "quotes rule present")
		}
	}
	if v, ok := parsed.Rules["semi"]; ok {
		s := ruleValue(v)
		if s == "always" || s == "true" {
			lines = append(lines, "semicolons: always")
		} else {
			lines = append(lines, "semicolons: as-needed")
		}
	}
	if parsed.Extends != nil {
		lines = append(lines, "extends configured")
	}
	if len(lines) == 0 {
		return []string{"ESLint configured"}
	}
	return lines
}

// ruleValue renders an ESLint rule setting, unwrapping the ["error", value]
// array form to its first meaningful element.
func ruleValue(v any) string {
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		v = arr[0]
	}
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(t))
	case string:
		return t
	case bool:
		return fmt.Sprintf("%v", t)
	}
	return "configured"
}

func phpCsFixerStyle(dir string) string {
	candidates := []string{".php-cs-fixer.php", ".php-cs-fixer.dist.php", ".php_cs"}
	for _, p := range candidates {
		content := readSmallFile(dir, p)
		if content == "" {
			continue
		}
		var lines []string
		if strings.Contains(content, "@PhpCsFixer") {
			lines = append(lines, "@PhpCsFixer ruleset")
		}
		if strings.Contains(content, "Symfony") {
			lines = append(lines, "@Symfony style")
		}
		if strings.Contains(content, "PSR12") || strings.Contains(content, "psr12") || strings.Contains(content, "PSR-12") {
			lines = append(lines, "PSR-12")
		}
		if strings.Contains(content, "indent") {
			lines = append(lines, "indent configured")
		}
		if len(lines) == 0 && (strings.Contains(content, "php-cs-fixer") || strings.Contains(content, "return ")) {
			lines = append(lines, "PHP-CS-Fixer configured")
		}
		if len(lines) > 0 {
			return strings.Join(lines, ", ")
		}
	}
	return ""
}

var (
	pascalRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	snakeRe  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	kebabRe  = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	camelRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
)

// namingConventions samples names from common source directories and reports
// the case styles they follow.
func namingConventions(dir string) []string {
	sampleDirs := []string{"app", "src", "lib", "components", "pages"}
	seen := map[string]bool{}
	hintSet := map[string]bool{}
	var hints []string

	addHint := func(h string) {
		if !hintSet[h] {
			hintSet[h] = true
			hints = append(hints, h)
		}
	}

	for _, sd := range sampleDirs {
		entries, err := os.ReadDir(filepath.Join(dir, sd))
		if err != nil {
			continue
		}
		if len(entries) > 25 {
			entries = entries[:25]
		}
		for _, e := range entries {
			base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if len(base) < 2 || seen[base] {
				continue
			}
			seen[base] = true
			switch {
			case pascalRe.MatchString(base):
				addHint("PascalCase (files/classes)")
			case snakeRe.MatchString(base) && strings.Contains(base, "_"):
				addHint("snake_case (files)")
			case kebabRe.MatchString(base) && strings.Contains(base, "-"):
				addHint("kebab-case (files)")
			case camelRe.MatchString(base) && upperRe.MatchString(base):
				addHint("camelCase (files)")
			}
		}
	}

	if len(hints) == 0 {
		return nil
	}
	if len(hints) > 4 {
		hints = hints[:4]
	}
	return []string{fmt.Sprintf("Naming (inferred): %s. Match existing file/class names.", strings.Join(hints, ", "))}
}

// frameworkAndStructure detects the project framework from its manifests and
// picks out the layout paths worth telling the model about.
func frameworkAndStructure(dir string, folders []string) (string, []string) {
	var structure []string
	framework := ""
	has := func(name string) bool {
		for _, f := range folders {
			if f == name {
				return true
			}
		}
		return false
	}

	if composer := readSmallFile(dir, "composer.json"); composer != "" {
		var parsed struct {
			Require map[string]string `json:"require"`
		}
		if json.Unmarshal([]byte(composer), &parsed) == nil && parsed.Require["laravel/framework"] != "" {
			framework = "Laravel"
			if has("app") {
				wanted := []string{"app/Http", "app/Models", "app/Services", "app/Providers"}
				for _, s := range subdirs(dir, "app") {
					for _, w := range wanted {
						if strings.HasPrefix(s, w) {
							structure = append(structure, s)
							break
						}
					}
				}
			}
			if has("resources") {
				structure = append(structure, "resources/views", "resources/js")
			}
			if has("routes") {
				structure = append(structure, "routes")
			}
			if has("config") {
				structure = append(structure, "config")
			}
			if len(structure) == 0 {
				structure = []string{"app", "config", "routes", "resources"}
			}
		}
	}

	if framework == "" {
		if pkg := readSmallFile(dir, "package.json"); pkg != "" {
			var parsed struct {
				Dependencies    map[string]string `json:"dependencies"`
				DevDependencies map[string]string `json:"devDependencies"`
			}
			if json.Unmarshal([]byte(pkg), &parsed) == nil {
				deps := map[string]string{}
				for k, v := range parsed.Dependencies {
					deps[k] = v
				}
				for k, v := range parsed.DevDependencies {
					deps[k] = v
				}
				switch {
				case deps["react"] != "" || deps["next"] != "":
					framework = "React"
					if deps["next"] != "" {
						framework = "Next.js"
					}
					if has("src") {
						wanted := []string{"src/components", "src/pages", "src/hooks", "src/utils", "src/app"}
						for _, s := range subdirs(dir, "src") {
							for _, w := range wanted {
								if strings.HasPrefix(s, w) {
									structure = append(structure, s)
									break
								}
							}
						}
					}
					if len(structure) == 0 {
						structure = []string{"src", "public", "components"}
					}
				case deps["vue"] != "" || deps["nuxt"] != "":
					framework = "Vue"
					if deps["nuxt"] != "" {
						framework = "Nuxt"
					}
					structure = []string{"src", "components", "pages", "layouts"}
				case deps["@angular/core"] != "":
					framework = "Angular"
					structure = []string{"src/app", "src/components", "src/services", "src/models"}
				}
			}
		}
	}

	if framework == "" && len(folders) > 0 {
		if has("app") && (has("config") || has("routes")) {
			framework = "Laravel-like PHP"
		} else if has("src") && (has("components") || has("app")) {
			framework = "Frontend (React/Vue-like)"
		}
	}
	if len(structure) == 0 && len(folders) > 0 {
		n := len(folders)
		if n > 12 {
			n = 12
		}
		structure = append(structure, folders[:n]...)
	}
	return framework, structure
}
