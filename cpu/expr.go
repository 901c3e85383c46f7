package cpu

import (
	"errors"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evaluate does compile-time #( ... ) evaluations.
// Integer defines are predeclared; other defines are ignored.
func evaluate(expr string, defines map[string]string) (value uint32, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range defines {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 {
		err = ErrParseExpression(expr)
		return
	}
	if st_int64 > 0xffffffff {
		err = errors.Join(ErrRange, ErrLiteralRange{Value: uint64(st_int64), Max: 0xffffffff})
		return
	}

	value = uint32(st_int64)
	return
}
