package database

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func connectionError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn, path, err),
	}
}

func notConnectedError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func queryTablesError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot read table list from the database",
		Err:  fmt.Errorf("from %s: cannot query sqlite_schema: %w", fn, err),
	}
}

func attachError(path string, err error) error {
	msg := "Cannot attach database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBAttachError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot attach %s: %w",
			fn, path, err),
	}
}

func detachError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDetachError,
		Msg:  "Cannot detach the candidate database",
		Err:  fmt.Errorf("from %s: cannot detach: %w", fn, err),
	}
}

func foreignKeysError(state string, err error) error {
	msg := "Cannot switch foreign key enforcement %s"
	vars := []any{state}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBForeignKeysError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: PRAGMA foreign_keys = %s: %w",
			fn, state, err),
	}
}
