package harness

import (
	"fmt"
	"strings"
)

// testCase is one fixed scenario of the built-in Two Sum suite. The table is
// owned here and referenced by both the single-test and full-suite generators
// so the two paths can never drift apart.
type testCase struct {
	Nums     []int
	Target   int
	Expected []int
}

var builtinCases = []testCase{
	{Nums: []int{2, 7, 11, 15}, Target: 9, Expected: []int{0, 1}},
	{Nums: []int{3, 2, 4}, Target: 6, Expected: []int{1, 2}},
	{Nums: []int{3, 3}, Target: 6, Expected: []int{0, 1}},
}

// CaseCount reports how many built-in cases the suite contains.
func CaseCount() int {
	return len(builtinCases)
}

// label is the human-readable case description printed by the harness.
func (t testCase) label() string {
	return fmt.Sprintf("nums=%s, target=%d", renderVector(t.Nums), t.Target)
}

// renderVector formats values the way the generated program renders results.
func renderVector(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// cppInitializer formats values as a C++ brace initializer list.
func cppInitializer(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
