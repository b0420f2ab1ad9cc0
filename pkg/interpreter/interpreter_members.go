package interpreter

import (
	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/runtime"
)

func (i *Interpreter) evaluateGet(n *ast.Get, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(n.Name, "Only instances have properties.")
	}
	val, found := instance.Get(n.Name.Lexeme)
	if !found {
		return nil, newRuntimeError(n.Name, "Undefined property '%s'.", n.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evaluateSet(n *ast.Set, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(n.Name, "Only instances have fields.")
	}
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(n.Name.Lexeme, value)
	return value, nil
}

// evaluateSuper looks the method up on the superclass captured when the class
// was declared, not on the receiver's class.
func (i *Interpreter) evaluateSuper(n *ast.Super, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.locals[n]
	if !ok {
		return nil, newRuntimeError(n.Keyword, "Cannot use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, environmentError(n.Keyword, err)
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, newRuntimeError(n.Keyword, "Superclass must be a class.")
	}
	thisVal, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, environmentError(n.Keyword, err)
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(n.Keyword, "Only instances have properties.")
	}
	method := superclass.FindMethod(n.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(n.Method, "Undefined property '%s'.", n.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
