// Package deps infers the npm packages a project document depends on from
// the import statements inside its code blocks.
//
// Inference is driven by a [Policy] value instead of package-level lists, so
// callers decide which specifiers are never installed:
//
//	policy := deps.DefaultPolicy()
//	policy.Ignore = append(policy.Ignore, "react")
//	set := deps.Infer(files, policy)
//	for _, name := range set.Sorted() {
//	    fmt.Println(name)
//	}
package deps

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/mdscaffold/pkg/markdown"
)

// importPattern matches `import <clause> from '<spec>'`. The clause may span
// lines (multi-line named imports) but not cross a quote or a statement end,
// so a side-effect import never swallows the next statement's specifier.
var importPattern = regexp.MustCompile(`\bimport\s+[^;'"]*?\s*\bfrom\s*['"]([^'"]+)['"]`)

// localPrefixes mark specifiers that resolve inside the project.
var localPrefixes = []string{"./", "../", "/", "@/"}

// Policy controls which import specifiers are excluded from inference.
type Policy struct {
	// Ignore lists exact specifiers that are never installed.
	Ignore []string `json:"ignore,omitempty"`

	// BlacklistPrefixes excludes every specifier starting with one of the
	// prefixes, e.g. "next/" for the framework's own modules.
	BlacklistPrefixes []string `json:"blacklist_prefixes,omitempty"`
}

// DefaultPolicy excludes the Next.js internal namespace.
func DefaultPolicy() Policy {
	return Policy{BlacklistPrefixes: []string{"next/"}}
}

// Excludes reports whether spec is filtered out by the policy.
func (p Policy) Excludes(spec string) bool {
	if slices.Contains(p.Ignore, spec) {
		return true
	}
	for _, prefix := range p.BlacklistPrefixes {
		if prefix != "" && strings.HasPrefix(spec, prefix) {
			return true
		}
	}
	return false
}

// Set is a deduplicated set of npm package names.
type Set map[string]struct{}

// Add inserts name into the set.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Infer returns the third-party packages imported by files.
//
// Every `import ... from '<spec>'` is considered. Specifiers excluded by the
// policy and local specifiers (./, ../, /, @/) are skipped; the rest are
// reduced to their package name with [PackageName].
func Infer(files []markdown.File, policy Policy) Set {
	set := make(Set)
	for _, f := range files {
		for _, spec := range Imports(f.Content) {
			if policy.Excludes(spec) || IsLocal(spec) {
				continue
			}
			if name := PackageName(spec); name != "" {
				set.Add(name)
			}
		}
	}
	return set
}

// Imports returns the module specifiers of every `import ... from` statement
// in code, in order of appearance.
func Imports(code string) []string {
	matches := importPattern.FindAllStringSubmatch(code, -1)
	specs := make([]string, 0, len(matches))
	for _, m := range matches {
		specs = append(specs, m[1])
	}
	return specs
}

// IsLocal reports whether spec refers to a project file rather than a
// package: a relative path, an absolute path or the "@/" source alias.
func IsLocal(spec string) bool {
	for _, prefix := range localPrefixes {
		if strings.HasPrefix(spec, prefix) {
			return true
		}
	}
	return spec == "." || spec == ".."
}

// PackageName reduces an import specifier to the installable package.
//
// A specifier containing "/" keeps its first two segments as scope and
// name, deeper sub-paths are dropped:
//
//	@hookform/resolvers/zod -> @hookform/resolvers
//	@radix-ui/react-toast   -> @radix-ui/react-toast
//	date-fns/locale         -> date-fns/locale
//	lodash/fp/map           -> lodash/fp
//	zod                     -> zod
//
// Unscoped two-segment results are not valid npm names; the scaffold
// installer warns about them and leaves them out.
func PackageName(spec string) string {
	parts := strings.Split(spec, "/")
	if len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
