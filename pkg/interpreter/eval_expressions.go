package interpreter

import (
	"errors"
	"fmt"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/runtime"
	"github.com/dlains/ringo/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(n.Value), nil
	case *ast.Grouping:
		return i.evaluateExpression(n.Expression, env)
	case *ast.Unary:
		return i.evaluateUnary(n, env)
	case *ast.Binary:
		return i.evaluateBinary(n, env)
	case *ast.Logical:
		return i.evaluateLogical(n, env)
	case *ast.Conditional:
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return i.evaluateExpression(n.ThenBranch, env)
		}
		return i.evaluateExpression(n.ElseBranch, env)
	case *ast.Variable:
		return i.lookUpVariable(n.Name, n, env)
	case *ast.Assign:
		return i.evaluateAssign(n, env)
	case *ast.Call:
		return i.evaluateCall(n, env)
	case *ast.Get:
		return i.evaluateGet(n, env)
	case *ast.Set:
		return i.evaluateSet(n, env)
	case *ast.This:
		return i.lookUpVariable(n.Keyword, n, env)
	case *ast.Super:
		return i.evaluateSuper(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type %T", node)
	}
}

func (i *Interpreter) evaluateUnary(n *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Type {
	case token.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, newRuntimeError(n.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !isTruthy(right)}, nil
	default:
		return nil, newRuntimeError(n.Operator, "Unsupported unary operator '%s'.", n.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(n *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Type {
	case token.Comma:
		return right, nil
	case token.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case token.Plus:
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		l, r, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(n.Operator, "Operands must be two numbers or two strings.")
		}
		return runtime.NumberValue{Val: l + r}, nil
	}

	l, r, ok := numberOperands(left, right)
	if !ok {
		return nil, newRuntimeError(n.Operator, "Operands must be numbers.")
	}
	switch n.Operator.Type {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, newRuntimeError(n.Operator, "Unsupported binary operator '%s'.", n.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateLogical(n *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	if n.Operator.Type == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(n.Right, env)
}

func (i *Interpreter) evaluateAssign(n *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[n]; ok {
		err = env.AssignAt(distance, n.Name.Lexeme, value)
	} else {
		err = i.globals.Assign(n.Name.Lexeme, value)
	}
	if err != nil {
		return nil, environmentError(n.Name, err)
	}
	return value, nil
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if distance, ok := i.locals[expr]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = i.globals.Get(name.Lexeme)
	}
	if err != nil {
		return nil, environmentError(name, err)
	}
	return val, nil
}

func environmentError(name token.Token, err error) error {
	var undefined *runtime.UndefinedVariableError
	if errors.As(err, &undefined) {
		return &RuntimeError{Token: name, Message: undefined.Error()}
	}
	return err
}

func numberOperands(left, right runtime.Value) (float64, float64, bool) {
	l, ok := left.(runtime.NumberValue)
	if !ok {
		return 0, 0, false
	}
	r, ok := right.(runtime.NumberValue)
	if !ok {
		return 0, 0, false
	}
	return l.Val, r.Val, true
}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	case nil:
		return false
	default:
		return true
	}
}

func valuesEqual(left runtime.Value, right runtime.Value) bool {
	switch lv := left.(type) {
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		if rv, ok := right.(runtime.BoolValue); ok {
			return lv.Val == rv.Val
		}
	case runtime.NumberValue:
		if rv, ok := right.(runtime.NumberValue); ok {
			return lv.Val == rv.Val
		}
	case runtime.StringValue:
		if rv, ok := right.(runtime.StringValue); ok {
			return lv.Val == rv.Val
		}
	case *runtime.FunctionValue:
		rv, ok := right.(*runtime.FunctionValue)
		return ok && lv == rv
	case *runtime.NativeFunctionValue:
		rv, ok := right.(*runtime.NativeFunctionValue)
		return ok && lv == rv
	case *runtime.ClassValue:
		rv, ok := right.(*runtime.ClassValue)
		return ok && lv == rv
	case *runtime.InstanceValue:
		rv, ok := right.(*runtime.InstanceValue)
		return ok && lv == rv
	}
	return false
}
