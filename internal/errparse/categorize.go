package errparse

import (
	"strings"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

// categoryRule maps message substrings to an error kind. The table is ordered:
// the first rule with a matching marker wins.
type categoryRule struct {
	markers []string
	kind    execution.ErrorKind
}

var categoryRules = []categoryRule{
	{markers: []string{"expected", "missing", "before", "after", "syntax"}, kind: execution.KindSyntax},
	{markers: []string{"not declared", "undefined"}, kind: execution.KindUndefined},
	{markers: []string{"does not name a type", "cannot convert", "invalid conversion", "no match for", "incompatible types"}, kind: execution.KindType},
	{markers: []string{"undefined reference", "linker", "ld returned"}, kind: execution.KindLinker},
}

// Categorize maps a diagnostic message to an error kind, falling back to
// "other" when nothing matches.
func Categorize(message string) execution.ErrorKind {
	lower := strings.ToLower(message)
	for _, rule := range categoryRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.kind
			}
		}
	}
	return execution.KindOther
}
