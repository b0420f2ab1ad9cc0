package interpreter

import (
	"fmt"

	"github.com/dlains/ringo/pkg/runtime"
	"github.com/dlains/ringo/pkg/token"
)

// Stringify renders a value the way `print` displays it.
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return token.FormatNumber(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.FunctionValue:
		return fmt.Sprintf("<fn %s>", v.Name())
	case *runtime.NativeFunctionValue:
		return "<native fn>"
	case *runtime.ClassValue:
		return v.Name
	case *runtime.InstanceValue:
		return v.Class.Name + " instance"
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}
