package deps

import "strings"

// toastImports are the shadcn toast component paths that require the
// pinned shadcn release.
var toastImports = []string{
	"@/components/ui/toast",
	"@/components/ui/toaster",
}

// UsesToast reports whether the document references the shadcn toast
// components.
func UsesToast(text string) bool {
	for _, imp := range toastImports {
		if strings.Contains(text, imp) {
			return true
		}
	}
	return false
}
