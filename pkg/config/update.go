package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies options in order, later ones win. Options with invalid
// values print a warning and leave the field unchanged.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts persistent fields of the Config (the ones stored
// in config.yaml and bound to BDESERIES_* variables) into options.
// HomeDir, progress, separate, output and force are runtime-only and
// never appear in the result.
func (c *Config) ToOptions() []Option {
	var res []Option
	str := func(v string, opt func(string) Option) {
		if v != "" {
			res = append(res, opt(v))
		}
	}
	num := func(v int, opt func(int) Option) {
		if v > 0 {
			res = append(res, opt(v))
		}
	}

	str(c.DataPath, OptDataPath)

	str(c.Catalog.Format, OptCatalogFormat)
	str(c.Catalog.Marker, OptCatalogMarker)
	if c.Catalog.WithObservations {
		res = append(res, OptCatalogWithObservations(true))
	}

	num(c.Fetch.Timeout, OptFetchTimeout)

	db := c.Database
	str(db.Host, OptDatabaseHost)
	num(db.Port, OptDatabasePort)
	str(db.User, OptDatabaseUser)
	str(db.Password, OptDatabasePassword)
	str(db.Database, OptDatabaseDatabase)
	str(db.SSLMode, OptDatabaseSSLMode)
	num(db.BatchSize, OptDatabaseBatchSize)

	str(c.Log.Format, OptLogFormat)
	str(c.Log.Level, OptLogLevel)
	str(c.Log.Destination, OptLogDestination)

	num(c.JobsNumber, OptJobsNumber)
	return res
}

var enums = map[string][]string{
	"Catalog.Format":   {"csv", "json", "sqlite", "xlsx"},
	"Database.SSLMode": {"disable", "require", "verify-ca", "verify-full"},
	"Log.Level":        {"debug", "error", "info", "warn"},
	"Log.Format":       {"json", "text", "tint"},
	"Log.Destination":  {"file", "stderr", "stdout"},
}

func isValidString(name, s string) bool {
	if s == "" {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
		return false
	}
	return true
}

func isValidInt(name string, i int) bool {
	if i <= 0 {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	vals := enums[name]
	if slices.Contains(vals, val) {
		return true
	}
	var b strings.Builder
	for _, v := range vals {
		fmt.Fprintf(&b, "\n  * %s", v)
	}
	gn.Warn("<em>%s</em> does not support '%s'. Valid values are:%s\nIgnoring...",
		name, val, b.String())
	return false
}
