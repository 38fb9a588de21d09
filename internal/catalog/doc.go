// Package catalog resolves database service launch specifications.
//
// The catalog merges built-in definitions (MySQL on 13306, MariaDB on
// 23306, both with row-format binary logging enabled) with optional user
// catalog files. Files may be JSONC (comments and trailing commas are
// stripped with github.com/tidwall/jsonc before standard JSON parsing)
// or YAML (gopkg.in/yaml.v3), selected by file extension.
//
// Every spec leaving this package has passed model.ServiceSpec.Validate
// and has its container name and config mount target defaulted.
package catalog
