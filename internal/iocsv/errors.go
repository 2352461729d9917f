package iocsv

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	msg := "Cannot open <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn, path, err),
	}
}

func DecodeError(path string, err error) error {
	msg := "Cannot decode CSV content of <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", fn, path, err),
	}
}

func StructuralError(path string, err error) error {
	msg := "File <em>%s</em> has no usable table structure"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StructuralError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: bad structure of %s: %w", fn, path, err),
	}
}
