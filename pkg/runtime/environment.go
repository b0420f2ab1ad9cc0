package runtime

import (
	"fmt"
	"sort"
)

// UndefinedVariableError is returned when a name has no binding in the frames searched.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

// Environment is one frame of name bindings plus a link to its enclosing
// frame. Frames are shared by pointer, so a frame captured by a closure or a
// bound method stays alive and every alias sees the same mutations.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new frame, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define inserts or overwrites a binding in this frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates the nearest frame, starting here, that already binds name.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return &UndefinedVariableError{Name: name}
}

// Get reads name, searching outward through the enclosing frames.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// GetAt reads name from the frame exactly distance links out, without searching.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	frame := e.Ancestor(distance)
	if frame == nil {
		return nil, &UndefinedVariableError{Name: name}
	}
	v, ok := frame.values[name]
	if !ok {
		return nil, &UndefinedVariableError{Name: name}
	}
	return v, nil
}

// AssignAt writes name into the frame exactly distance links out.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	frame := e.Ancestor(distance)
	if frame == nil {
		return &UndefinedVariableError{Name: name}
	}
	frame.values[name] = value
	return nil
}

// Ancestor walks distance enclosing links; nil if the chain is shorter.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// Names lists the variables defined directly in this frame, sorted.
// Enclosing frames are not included.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
