package iobuild

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

// DateFormatError wraps a *dates.FormatError of a file.
func DateFormatError(file string, err error) error {
	msg := "Cannot determine date format of <em>%s</em>"
	vars := []any{file}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DateFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: date format of %s: %w", fn, file, err),
	}
}

func StructuralError(file string, err error) error {
	msg := "File <em>%s</em> has no usable table structure"
	vars := []any{file}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StructuralError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: bad structure of %s: %w", fn, file, err),
	}
}
