package upgrade

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func phaseError(expect, got phase) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradePhaseError,
		Msg:  "Upgrade steps ran out of order",
		Err: fmt.Errorf("from %s: expected phase %q, in phase %q",
			fn, expect, got),
	}
}

func beginError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeBeginError,
		Msg:  "Cannot start the migration transaction",
		Err:  fmt.Errorf("from %s: begin transaction: %w", fn, err),
	}
}

func tableCopyError(table string, err error) error {
	msg := "Cannot copy table <em>%s</em> from the candidate database"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeTableCopyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: copying %s: %w",
			fn, table, err),
	}
}

func rewriteError(table string, oldID, newID int64, err error) error {
	msg := "Cannot reassign taxon %d to %d in <em>%s</em>"
	vars := []any{oldID, newID, table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeRewriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: rewriting tsn %d -> %d in %s: %w",
			fn, oldID, newID, table, err),
	}
}

func integrityError(table string, err error) error {
	msg := "Referential integrity check failed after migration"
	var vars []any
	if table != "" {
		msg = "Referential integrity check failed in <em>%s</em>"
		vars = []any{table}
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeIntegrityError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: foreign key check: %w", fn, err),
	}
}

func commitError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeCommitError,
		Msg:  "Cannot commit the migration transaction",
		Err:  fmt.Errorf("from %s: commit: %w", fn, err),
	}
}

func rollbackError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UpgradeRollbackError,
		Msg:  "Cannot roll back the migration transaction",
		Err:  fmt.Errorf("from %s: rollback: %w", fn, err),
	}
}
