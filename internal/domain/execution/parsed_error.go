package execution

// ErrorKind is a best-effort classification of a single compiler diagnostic.
type ErrorKind string

const (
	KindSyntax    ErrorKind = "syntax"
	KindType      ErrorKind = "type"
	KindUndefined ErrorKind = "undefined"
	KindLinker    ErrorKind = "linker"
	KindOther     ErrorKind = "other"
)

// ParsedError is the structured decomposition of one compiler or linker
// diagnostic line. Linker diagnostics carry File "linker" and Line 0.
type ParsedError struct {
	File        string    `json:"file"`
	Line        int       `json:"line"`
	Column      int       `json:"column,omitempty"`
	Kind        ErrorKind `json:"type"`
	Message     string    `json:"message"`
	Raw         string    `json:"rawError"`
	CodeSnippet string    `json:"codeSnippet,omitempty"`
}
