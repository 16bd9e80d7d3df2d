package types

const (
	// ModuleName is the name of the guard policy
	ModuleName = "guard"
)

// CallKind is the execution style of an attempted wallet call.
type CallKind uint8

const (
	// CallKindCall is an ordinary external call.
	CallKindCall CallKind = iota
	// CallKindDelegate executes the target's code in the wallet context.
	CallKindDelegate
)
