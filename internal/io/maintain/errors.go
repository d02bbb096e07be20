package maintain

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

var errNotConnected = errors.New("database is not connected")

func pruneError(table string, err error) error {
	msg := "Cannot prune <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MaintainPruneError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: pruning %s: %w",
			fn, table, err),
	}
}

func vacuumError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MaintainVacuumError,
		Msg:  "Cannot reclaim database file space",
		Err:  fmt.Errorf("from %s: VACUUM: %w", fn, err),
	}
}

func reorderError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MaintainReorderError,
		Msg:  "Cannot recompute the phylogenetic sort order",
		Err:  fmt.Errorf("from %s: reorder: %w", fn, err),
	}
}
