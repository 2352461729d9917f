package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError suggests switching the log destination when the
// log file cannot be opened.
func CreateLogFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg: "Cannot open log <em>%s</em>, " +
			"set BDESERIES_LOG_DESTINATION=stderr to log to the terminal",
		Vars: []any{path},
		Err: fmt.Errorf("from %s: open log %s: %w",
			runtime.FuncForPC(pc).Name(), path, err),
	}
}
