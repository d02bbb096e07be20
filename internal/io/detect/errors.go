package detect

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func obsoleteError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DetectObsoleteError,
		Msg:  "Cannot find obsolete taxa in the candidate database",
		Err: fmt.Errorf("from %s: obsolete taxa query: %w",
			fn, err),
	}
}

func compareError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DetectCompareError,
		Msg:  "Cannot compare taxa between the databases",
		Err: fmt.Errorf("from %s: taxa comparison query: %w",
			fn, err),
	}
}
