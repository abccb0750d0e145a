package execution

// Category is the aggregate verdict for one full-suite run.
type Category string

const (
	CategorySyntaxError  Category = "SYNTAX_ERROR"
	CategoryRuntimeError Category = "RUNTIME_ERROR"
	CategoryWrongAnswer  Category = "WRONG_ANSWER"
	CategoryNoIssues     Category = "NO_ISSUES"
)

// TestFailure describes one failed case from the built-in suite.
type TestFailure struct {
	Number    int    `json:"number"`
	Label     string `json:"label,omitempty"`
	Input     string `json:"input,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Actual    string `json:"actual,omitempty"`
	Exception string `json:"exception,omitempty"`
}

// TestSummary aggregates per-case outcomes of a suite run.
type TestSummary struct {
	Passed   int           `json:"passed"`
	Total    int           `json:"total"`
	Failures []TestFailure `json:"failures"`
}

// Report classifies one full-suite run into one of four outcome categories.
type Report struct {
	Category          Category     `json:"category"`
	CompilationErrors string       `json:"compilationErrors,omitempty"`
	RuntimeErrors     string       `json:"runtimeErrors,omitempty"`
	Tests             *TestSummary `json:"testResults,omitempty"`
	Output            string       `json:"output,omitempty"`
	ExitCode          int          `json:"exitCode"`
}
