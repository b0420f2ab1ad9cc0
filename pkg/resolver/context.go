package resolver

// functionKind tracks what kind of body is being resolved, for `return` checks.
type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

// classKind tracks whether `this` and `super` are meaningful.
type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)
