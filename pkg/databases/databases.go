// Package databases describes the source databases listed in
// databases.yaml. Every database is a zip archive of CSV files published
// under a short tag (be, cf...). The tag is also the name of the
// subdirectory of the data root the archive is extracted into.
package databases

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// Config represents the complete databases.yaml file.
type Config struct {
	// Databases is the list of databases to fetch.
	Databases []Database `yaml:"databases"`
}

// Database describes one downloadable archive.
type Database struct {
	// Tag is the short name of the database, used as a directory name.
	Tag string `yaml:"tag"`

	// Title is a human-readable name of the database.
	Title string `yaml:"title,omitempty"`

	// URL is the address of the zip archive.
	URL string `yaml:"url"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Databases) == 0 {
		return fmt.Errorf("no databases specified in configuration")
	}

	seen := make(map[string]struct{})
	for i := range c.Databases {
		d := &c.Databases[i]
		if err := d.Validate(); err != nil {
			return fmt.Errorf("database %d: %w", i+1, err)
		}
		if _, ok := seen[d.Tag]; ok {
			return fmt.Errorf("database %d: duplicate tag '%s'", i+1, d.Tag)
		}
		seen[d.Tag] = struct{}{}
	}
	return nil
}

// Validate checks a single database entry.
func (d *Database) Validate() error {
	d.Tag = strings.TrimSpace(d.Tag)
	d.URL = strings.TrimSpace(d.URL)

	if d.Tag == "" {
		return fmt.Errorf("tag is required")
	}
	if d.Tag != filepath.Base(d.Tag) || d.Tag == "." || d.Tag == ".." {
		return fmt.Errorf("tag '%s' must be a plain directory name", d.Tag)
	}
	if !IsValidURL(d.URL) {
		return fmt.Errorf("url '%s' of '%s' is not a valid http(s) URL",
			d.URL, d.Tag)
	}
	return nil
}

// IsValidURL reports whether s is an absolute http or https URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Tags returns tags of all databases in configuration order.
func (c *Config) Tags() []string {
	res := make([]string, len(c.Databases))
	for i, d := range c.Databases {
		res[i] = d.Tag
	}
	return res
}

// Filter returns databases with the given tags, in the order of tags.
// Empty tags select all databases. Unknown tags are returned separately.
func (c *Config) Filter(tags []string) ([]Database, []string) {
	if len(tags) == 0 {
		return slices.Clone(c.Databases), nil
	}

	var res []Database
	var unknown []string
	for _, tag := range tags {
		idx := slices.IndexFunc(c.Databases, func(d Database) bool {
			return d.Tag == tag
		})
		if idx < 0 {
			unknown = append(unknown, tag)
			continue
		}
		res = append(res, c.Databases[idx])
	}
	return res, unknown
}
