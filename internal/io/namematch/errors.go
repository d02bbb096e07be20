package namematch

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func layoutError(err error) error {
	msg := `The species list does not match the expected column layout.
   %s`
	vars := []any{err.Error()}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MatchLayoutError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: layout validation: %w", fn, err),
	}
}

func readError(table string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MatchReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: reading %s: %w", fn, table, err),
	}
}

func applyError(table string, err error) error {
	msg := "Cannot update <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MatchApplyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: updating %s: %w", fn, table, err),
	}
}

func unknownCodeError(code string, line int) error {
	msg := "Unknown germination code <em>%s</em> on line %d"
	vars := []any{code, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MatchApplyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unknown germination code %q (line %d)",
			fn, code, line),
	}
}
