package grammar

// BinaryRule is a rewrite A → B C in log-probability form.
type BinaryRule struct {
	LHS, RHS1, RHS2 Symbol
	LogP            float64 // ln p, finite and non-positive
}

// TerminalRule is a rewrite A → t, where t is a terminal symbol, in
// log-probability form.
type TerminalRule struct {
	LHS      Symbol
	Terminal Symbol
	LogP     float64
}
