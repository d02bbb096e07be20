package resolve

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func queryError(subject string, err error) error {
	msg := "Cannot look up <em>%s</em> in the taxonomy"
	vars := []any{subject}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ResolverQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: taxonomy lookup for %q: %w",
			fn, subject, err),
	}
}

func ambiguousError(subject string, count int) error {
	msg := "<em>%s</em> matches %d taxa; the taxonomy data is ambiguous"
	vars := []any{subject, count}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ResolverAmbiguousError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %q is ambiguous: %d matches",
			fn, subject, count),
	}
}
