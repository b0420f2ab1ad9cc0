package resolver

// scope maps a name to whether its initializer has finished resolving.
type scope map[string]bool

type scopeStack []scope

func (s *scopeStack) push() {
	*s = append(*s, make(scope))
}

func (s *scopeStack) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s scopeStack) empty() bool {
	return len(s) == 0
}

// innermost returns the current scope; callers check empty() first.
func (s scopeStack) innermost() scope {
	return s[len(s)-1]
}

// distance finds the innermost scope declaring name; ok is false when the
// name must be a global.
func (s scopeStack) distance(name string) (int, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if _, found := s[i][name]; found {
			return len(s) - 1 - i, true
		}
	}
	return 0, false
}
