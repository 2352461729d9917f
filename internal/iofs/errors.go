package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

// caller returns the name of the function that built the error.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// CreateDirError reports a directory of the data root, cache, config or
// logs that could not be made.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot make directory <em>%s</em>, check its permissions",
		Vars: []any{dir},
		Err:  fmt.Errorf("from %s: cannot create directory %s: %w", caller(), dir, err),
	}
}

// WriteTemplateError reports a default config.yaml or databases.yaml that
// could not be written.
func WriteTemplateError(path string, err error) error {
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  "Cannot write default settings to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot write template %s: %w", caller(), path, err),
	}
}

// ReadFileError reports a file or directory that exists but cannot be
// read.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
	}
}
