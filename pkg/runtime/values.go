// Package runtime holds the value model and scope frames used by the interpreter.
package runtime

import (
	"fmt"

	"github.com/dlains/ringo/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// NumberValue is the only numeric type; literals are always floating.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// FromLiteral converts a scanned literal (nil, bool, float64, string).
func FromLiteral(lit any) Value {
	switch v := lit.(type) {
	case bool:
		return BoolValue{Val: v}
	case float64:
		return NumberValue{Val: v}
	case string:
		return StringValue{Val: v}
	default:
		return NilValue{}
	}
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Callable is implemented by every value that can appear as a callee.
type Callable interface {
	Value
	Arity() int
}

// FunctionValue is a closure: a shared declaration plus the frame that was
// current when the declaration executed.
type FunctionValue struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Declaration.Params) }

// Name is the declared function name.
func (v *FunctionValue) Name() string { return v.Declaration.Name.Lexeme }

// Bind returns a copy of the method whose closure gains a frame binding
// `this` to instance, enclosing the method's original closure.
func (v *FunctionValue) Bind(instance *InstanceValue) *FunctionValue {
	env := NewEnvironment(v.Closure)
	env.Define("this", instance)
	return &FunctionValue{Declaration: v.Declaration, Closure: env, IsInitializer: v.IsInitializer}
}

// NativeFunc implements a host function; args already match ParamCount.
type NativeFunc func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name       string
	ParamCount int
	Impl       NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v *NativeFunctionValue) Arity() int { return v.ParamCount }

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

// ClassValue shares its method table with every instance and subclass.
type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod looks name up on this class, then up the superclass chain.
// It returns nil when no class in the chain defines it.
func (v *ClassValue) FindMethod(name string) *FunctionValue {
	for class := v; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method
		}
	}
	return nil
}

// Arity is the initializer's arity, or 0 when the class has none.
func (v *ClassValue) Arity() int {
	if initializer := v.FindMethod("init"); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// InstanceValue owns its fields; methods come from the class.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Get returns the field named name, or else the class method bound to this
// instance. ok is false when neither exists.
func (v *InstanceValue) Get(name string) (Value, bool) {
	if val, ok := v.Fields[name]; ok {
		return val, true
	}
	if method := v.Class.FindMethod(name); method != nil {
		return method.Bind(v), true
	}
	return nil, false
}

// Set creates or overwrites a field.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}
