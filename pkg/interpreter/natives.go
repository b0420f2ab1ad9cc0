package interpreter

import (
	"github.com/dlains/ringo/pkg/runtime"
)

func (i *Interpreter) defineNatives() {
	i.globals.Define("clock", &runtime.NativeFunctionValue{
		Name:       "clock",
		ParamCount: 0,
		Impl: func(_ []runtime.Value) (runtime.Value, error) {
			now := i.clock()
			seconds := float64(now.Unix()) + float64(now.Nanosecond())/1e9
			return runtime.NumberValue{Val: seconds}, nil
		},
	})
}
