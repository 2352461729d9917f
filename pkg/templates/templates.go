// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// DatabasesYAML contains the default databases.yaml template with the
// Banco de España archives to download.
//
//go:embed databases.yaml
var DatabasesYAML string

// ConfigYAML contains the default config.yaml template for application configuration.
//
//go:embed config.yaml
var ConfigYAML string
