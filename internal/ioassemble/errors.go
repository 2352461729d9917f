package ioassemble

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

func ReadDirError(dir string, err error) error {
	msg := "Cannot read directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read directory %s: %w", fn, dir, err),
	}
}

func CancelledError(err error) error {
	msg := "Processing was cancelled"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cancelled: %w", fn, err),
	}
}

// AllFilesFailedError is returned when not a single file of a database
// could be processed.
func AllFilesFailedError(database string, failed int) error {
	msg := "All %d files of <em>%s</em> failed, see the log"
	vars := []any{failed, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AllFilesFailedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: all %d files of %s failed",
			fn, failed, database),
	}
}
