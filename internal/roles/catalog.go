package roles

import (
	"github.com/rolepilot/pkg/models"
)

// DefaultPersonas is the built-in persona catalog. Declaration order matters:
// auto-detection scans personas in this order and returns the first match.
var DefaultPersonas = []models.Persona{
	{
		Code:         "backend",
		Name:         "Backend Developer",
		Icon:         "🔧",
		Description:  "Focus on server-side logic, APIs, databases, and scalability",
		FocusAreas:   []string{"APIs", "Databases", "Architecture", "Performance", "Security"},
		FilePatterns: []string{"*.controller.ts", "*.service.ts", "*.repository.ts", "routes/*"},
		PromptBias:   "Production-ready code with error handling, transactions, caching, and scalability considerations",
	},
	{
		Code:         "laravel",
		Name:         "Laravel Developer",
		Icon:         "🎸",
		Description:  "Laravel framework expertise with Eloquent, Blade, and ecosystem",
		FocusAreas:   []string{"Eloquent ORM", "Blade Templates", "Artisan", "Middleware", "Laravel Packages"},
		FilePatterns: []string{"*.php", "app/*", "routes/*.php", "resources/views/*.blade.php"},
		PromptBias:   "Laravel conventions, Eloquent patterns, service containers, and framework best practices",
	},
	{
		Code:         "corephp",
		Name:         "Core PHP Developer",
		Icon:         "🐘",
		Description:  "Pure PHP without frameworks, focusing on performance and fundamentals",
		FocusAreas:   []string{"PHP Core", "Performance", "Security", "PDO", "Sessions"},
		FilePatterns: []string{"*.php", "index.php", "config.php"},
		PromptBias:   "Clean, efficient PHP code without framework dependencies, focusing on performance and security",
	},
	{
		Code:         "react",
		Name:         "React Developer",
		Icon:         "⚛️",
		Description:  "React specialist with hooks, state management, and modern patterns",
		FocusAreas:   []string{"React Hooks", "State Management", "Component Design", "TypeScript", "Performance"},
		FilePatterns: []string{"*.tsx", "*.jsx", "components/*", "hooks/*"},
		PromptBias:   "Modern React patterns with hooks, TypeScript, proper state management, and component composition",
	},
	{
		Code:         "frontend",
		Name:         "Frontend Developer",
		Icon:         "🎨",
		Description:  "UI/UX focused with styling, accessibility, and user experience",
		FocusAreas:   []string{"UI/UX", "Responsive Design", "Accessibility", "CSS", "User Experience"},
		FilePatterns: []string{"*.html", "*.css", "*.scss", "*.tsx", "*.jsx"},
		PromptBias:   "User-friendly interfaces with accessibility, responsive design, and excellent UX",
	},
	{
		Code:         "qa",
		Name:         "QA Engineer",
		Icon:         "🧪",
		Description:  "Testing, validation, security, and quality assurance",
		FocusAreas:   []string{"Testing", "Edge Cases", "Security", "Validation", "Coverage"},
		FilePatterns: []string{"*.test.ts", "*.spec.ts", "__tests__/*", "tests/*"},
		PromptBias:   "Comprehensive test coverage with edge cases, security validation, and quality assurance",
	},
	{
		Code:         "techlead",
		Name:         "Tech Lead",
		Icon:         "🏗️",
		Description:  "Architecture, system design, and technical decision-making",
		FocusAreas:   []string{"Architecture", "System Design", "Trade-offs", "Scalability", "Team Leadership"},
		FilePatterns: []string{"*"},
		PromptBias:   "Architectural decisions with trade-off analysis, scalability planning, and system design",
	},
	{
		Code:         "pm",
		Name:         "Project Manager",
		Icon:         "📋",
		Description:  "Planning, documentation, coordination, and project management",
		FocusAreas:   []string{"Planning", "Documentation", "Requirements", "Coordination", "Timelines"},
		FilePatterns: []string{"*.md", "README*", "CHANGELOG*", "docs/*"},
		PromptBias:   "Clear documentation, project planning, requirement analysis, and stakeholder communication",
	},
}
