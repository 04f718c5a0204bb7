// Package schemas embeds the JSON Schemas for sampledrive's YAML files.
package schemas

import _ "embed"

// ConfigSchemaJSON is the JSON Schema for .sampledrive.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
