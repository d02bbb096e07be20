package schemacheck

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func openError(path string, err error) error {
	msg := "Cannot open database <em>%s</em> for inspection"
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

func inspectError(path string, err error) error {
	msg := "Cannot inspect the schema of <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaInspectError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: schema inspection of %s: %w",
			fn, path, err),
	}
}

func tableMissingError(path, table string) error {
	msg := "Table <em>%s</em> is missing from <em>%s</em>"
	vars := []any{table, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaTableMissingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: table %s missing from %s",
			fn, table, path),
	}
}

func mismatchError(table string, diffs int) error {
	msg := `Table <em>%s</em> differs between the databases (%d differences).
   The candidate cannot be used for an upgrade.`
	vars := []any{table, diffs}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: table %s: %d schema differences",
			fn, table, diffs),
	}
}
