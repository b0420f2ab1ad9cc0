package interpreter

import (
	"errors"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/runtime"
	"github.com/dlains/ringo/pkg/token"
)

func (i *Interpreter) evaluateCall(n *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return i.callValue(callee, args, n.Paren)
}

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, newRuntimeError(paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if i.depth >= i.maxDepth {
		return nil, newRuntimeError(paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()
	switch c := fn.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(c, args)
	case *runtime.ClassValue:
		return i.instantiate(c, args)
	case *runtime.NativeFunctionValue:
		result, err := c.Impl(args)
		if err != nil {
			var rtErr *RuntimeError
			if errors.As(err, &rtErr) {
				return nil, rtErr
			}
			return nil, newRuntimeError(paren, "%s", err.Error())
		}
		if result == nil {
			return runtime.NilValue{}, nil
		}
		return result, nil
	default:
		return nil, newRuntimeError(paren, "Can only call functions and classes.")
	}
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	i.logger.Debug("call", "fn", fn.Name(), "args", len(args), "line", fn.Declaration.Name.Line)
	localEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		localEnv.Define(param.Lexeme, args[idx])
	}

	var result runtime.Value = runtime.NilValue{}
	if err := i.executeBlock(fn.Declaration.Body, localEnv); err != nil {
		var ret returnSignal
		if !errors.As(err, &ret) {
			return nil, err
		}
		result = ret.value
	}
	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	return result, nil
}

func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if initializer := class.FindMethod("init"); initializer != nil {
		if _, err := i.invokeFunction(initializer.Bind(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
