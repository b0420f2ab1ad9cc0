package runtime

import (
	"testing"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/token"
)

func method(name string, params ...string) *ast.Function {
	toks := make([]token.Token, 0, len(params))
	for _, p := range params {
		toks = append(toks, token.New(token.Identifier, p, nil, 1))
	}
	return ast.NewFunction(token.New(token.Identifier, name, nil, 1), toks, nil)
}

func TestFromLiteral(t *testing.T) {
	if _, ok := FromLiteral(nil).(NilValue); !ok {
		t.Fatalf("nil literal")
	}
	if v, ok := FromLiteral(true).(BoolValue); !ok || !v.Val {
		t.Fatalf("bool literal %#v", v)
	}
	if v, ok := FromLiteral(2.5).(NumberValue); !ok || v.Val != 2.5 {
		t.Fatalf("number literal %#v", v)
	}
	if v, ok := FromLiteral("s").(StringValue); !ok || v.Val != "s" {
		t.Fatalf("string literal %#v", v)
	}
}

func TestClassFindMethodWalksSuperclasses(t *testing.T) {
	base := &ClassValue{Name: "Base", Methods: map[string]*FunctionValue{
		"speak": {Declaration: method("speak")},
	}}
	derived := &ClassValue{Name: "Derived", Superclass: base, Methods: map[string]*FunctionValue{}}

	if derived.FindMethod("speak") == nil {
		t.Fatalf("expected inherited method")
	}
	if derived.FindMethod("missing") != nil {
		t.Fatalf("missing method must be nil")
	}
	if base.FindMethod("missing") != nil {
		t.Fatalf("missing method without superclass must be nil")
	}
}

func TestClassArity(t *testing.T) {
	plain := &ClassValue{Name: "Plain", Methods: map[string]*FunctionValue{}}
	if plain.Arity() != 0 {
		t.Fatalf("class without init arity = %d", plain.Arity())
	}
	withInit := &ClassValue{Name: "Point", Methods: map[string]*FunctionValue{
		"init": {Declaration: method("init", "x", "y"), IsInitializer: true},
	}}
	if withInit.Arity() != 2 {
		t.Fatalf("class arity = %d, want 2", withInit.Arity())
	}
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	class := &ClassValue{Name: "Box", Methods: map[string]*FunctionValue{
		"value": {Declaration: method("value"), Closure: NewEnvironment(nil)},
	}}
	inst := NewInstance(class)

	got, ok := inst.Get("value")
	if !ok {
		t.Fatalf("expected bound method")
	}
	bound, ok := got.(*FunctionValue)
	if !ok {
		t.Fatalf("expected function, got %#v", got)
	}
	this, err := bound.Closure.GetAt(0, "this")
	if err != nil || this != inst {
		t.Fatalf("bound this = %#v, %v", this, err)
	}

	inst.Set("value", NumberValue{Val: 9})
	got, _ = inst.Get("value")
	if num, ok := got.(NumberValue); !ok || num.Val != 9 {
		t.Fatalf("field should shadow method, got %#v", got)
	}
	if _, ok := inst.Get("nothing"); ok {
		t.Fatalf("unexpected property")
	}
}

func TestBindKeepsOriginalClosure(t *testing.T) {
	closure := NewEnvironment(nil)
	fn := &FunctionValue{Declaration: method("m"), Closure: closure, IsInitializer: true}
	bound := fn.Bind(NewInstance(&ClassValue{Name: "C"}))

	if bound.Closure.Ancestor(1) != closure {
		t.Fatalf("bound closure must enclose the original closure")
	}
	if !bound.IsInitializer {
		t.Fatalf("initializer flag lost")
	}
	if fn.Closure != closure {
		t.Fatalf("Bind mutated the original function")
	}
}
