package editorconfig

import "regexp"

// rewriteRule is one step of the module syntax rewrite
type rewriteRule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// moduleRules are applied in order. They cover single-line ES module syntax
// only: multi-line import lists, aliased re-exports and keywords inside
// string or template literals are not handled.
var moduleRules = []rewriteRule{
	{
		name:    "named import",
		pattern: regexp.MustCompile(`\bimport\s*\{[^}]*\}\s*from\s*['"][^'"\n]*['"][ \t]*;?`),
	},
	{
		name:    "namespace import",
		pattern: regexp.MustCompile(`\bimport\s*\*\s*as\s+[\w$]+\s+from\s*['"][^'"\n]*['"][ \t]*;?`),
	},
	{
		name:    "default import",
		pattern: regexp.MustCompile(`\bimport\s+[\w$]+\s+from\s*['"][^'"\n]*['"][ \t]*;?`),
	},
	{
		name:    "export const",
		pattern: regexp.MustCompile(`\bexport\s+const\s`),
		replace: "const ",
	},
	{
		name:    "export function",
		pattern: regexp.MustCompile(`\bexport\s+function\b`),
		replace: "function",
	},
	{
		name:    "export let/var/class",
		pattern: regexp.MustCompile(`\bexport\s+(let|var|class)\s`),
		replace: "$1 ",
	},
	{
		name:    "export default",
		pattern: regexp.MustCompile(`\bexport\s+default\s`),
		replace: "module.exports.default = ",
	},
	{
		// The statement terminator is left in place.
		name:    "named export list",
		pattern: regexp.MustCompile(`\bexport\s*\{[^}]*\}`),
	},
}

// Transform rewrites ES module import/export syntax into plain script syntax
// the embedded engine can parse. It never executes or validates the source;
// input without module syntax is returned unchanged.
func Transform(source string) string {
	out := source
	for _, rule := range moduleRules {
		out = rule.pattern.ReplaceAllString(out, rule.replace)
	}
	return out
}
