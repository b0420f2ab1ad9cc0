package interpreter

import (
	"fmt"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Stmt, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.Expression:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.Print:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.out, Stringify(val))
		return err
	case *ast.Var:
		var value runtime.Value = runtime.NilValue{}
		if n.Initializer != nil {
			val, err := i.evaluateExpression(n.Initializer, env)
			if err != nil {
				return err
			}
			value = val
		}
		env.Define(n.Name.Lexeme, value)
		return nil
	case *ast.Block:
		return i.executeBlock(n.Statements, runtime.NewEnvironment(env))
	case *ast.If:
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return i.executeStatement(n.ThenBranch, env)
		}
		if n.ElseBranch != nil {
			return i.executeStatement(n.ElseBranch, env)
		}
		return nil
	case *ast.While:
		return i.executeWhile(n, env)
	case *ast.Function:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{Declaration: n, Closure: env})
		return nil
	case *ast.Return:
		var value runtime.Value = runtime.NilValue{}
		if n.Value != nil {
			val, err := i.evaluateExpression(n.Value, env)
			if err != nil {
				return err
			}
			value = val
		}
		return returnSignal{value: value}
	case *ast.Class:
		return i.executeClass(n, env)
	default:
		return fmt.Errorf("unsupported statement type %T", node)
	}
}

// executeBlock runs statements in scope, a frame the caller created for them.
func (i *Interpreter) executeBlock(statements []ast.Stmt, scope *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeWhile(loop *ast.While, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !isTruthy(cond) {
			return nil
		}
		if err := i.executeStatement(loop.Body, env); err != nil {
			return err
		}
	}
}

func (i *Interpreter) executeClass(n *ast.Class, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if n.Superclass != nil {
		val, err := i.evaluateExpression(n.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return newRuntimeError(n.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	env.Define(n.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(n.Methods))
	for _, method := range n.Methods {
		methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Declaration:   method,
			Closure:       methodEnv,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &runtime.ClassValue{Name: n.Name.Lexeme, Superclass: superclass, Methods: methods}
	i.logger.Debug("class", "name", class.Name, "methods", len(methods), "line", n.Name.Line)
	env.Define(n.Name.Lexeme, class)
	return nil
}
