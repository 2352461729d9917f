package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ReadFileError
	ReadDirError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Catalog errors
	DateFormatError
	StructuralError
	DecodeError
	AllFilesFailedError

	// Export errors
	ExportFormatError
	ExportWriteError

	// Fetch errors
	DatabasesConfigError
	FetchDownloadError
	FetchArchiveError
	FetchExtractError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	SchemaGORMConnectionError
	SchemaCreateError
	LoadCopyError
	SQLiteWriteError
)
