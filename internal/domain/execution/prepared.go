package execution

// PreparedCode describes the source files written for one run. Files keeps
// every emitted file by name so error formatting downstream can map line
// numbers back to the exact source that was compiled.
type PreparedCode struct {
	MainFile    string
	Files       map[string]string
	UsedHarness bool
}
