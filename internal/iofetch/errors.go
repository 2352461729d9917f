package iofetch

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

// StatusError is a non-200 response of the download server.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s",
		e.Code, http.StatusText(e.Code))
}

// DatabasesConfigError is returned when databases.yaml cannot be loaded.
func DatabasesConfigError(path string, err error) error {
	msg := `Cannot load databases configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - Invalid YAML format
  - Missing tag or url of a database
  - Permission denied

<em>How to fix:</em>
  1. Check the file: <em>cat %s</em>
  2. Remove it to get the default list on the next run`
	vars := []any{path, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatabasesConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: databases config %s: %w", fn, path, err),
	}
}

// DownloadError is returned when an archive cannot be downloaded.
func DownloadError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchDownloadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: download %s: %w", fn, url, err),
	}
}

// ArchiveError is returned when a downloaded file is not a valid zip.
func ArchiveError(path string, err error) error {
	msg := "Downloaded file <em>%s</em> is not a valid zip archive"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchArchiveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open archive %s: %w", fn, path, err),
	}
}

// ExtractError is returned when files cannot be written into dir.
func ExtractError(dir string, err error) error {
	msg := "Cannot extract files into <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchExtractError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: extract into %s: %w", fn, dir, err),
	}
}
