// Package catalog resolves service launch specifications. It combines
// built-in definitions for the stock database services with optional
// user catalog files in JSONC or YAML format.
//
// Catalog files support JSONC (JSON with Comments) via
// github.com/tidwall/jsonc, matching the convention of editor-oriented
// config files, or plain YAML selected by file extension.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// File represents the raw structure of a catalog file. Service names are
// map keys; the Name field inside each spec is filled from the key during
// loading, so users never repeat the name.
type File struct {
	// Services maps service names to their launch specifications.
	Services map[string]model.ServiceSpec `json:"services" yaml:"services"`
}

// Catalog holds the merged set of resolved service specifications.
type Catalog struct {
	// specs is keyed by service name. Values have passed Validate and
	// have all defaults filled in.
	specs map[string]model.ServiceSpec
}

// Builtin returns a catalog containing only the built-in service
// definitions (MySQL and MariaDB with their stock configuration files
// and port mappings).
func Builtin() *Catalog {
	c := &Catalog{specs: make(map[string]model.ServiceSpec)}
	for _, spec := range builtinSpecs() {
		// Built-in specs are maintained alongside their tests; a
		// validation failure here is a programming error.
		if err := spec.Validate(); err != nil {
			panic(fmt.Sprintf("invalid builtin service spec %q: %v", spec.Name, err))
		}
		c.specs[spec.Name] = spec
	}
	return c
}

// Load builds a catalog from the built-ins merged with the given catalog
// file. File entries override built-ins with the same name. An empty path
// returns the built-in catalog unchanged.
func Load(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse YAML catalog %s: %w", path, err)
		}
	case ".json", ".jsonc":
		// jsonc.ToJSON strips comments and trailing commas, producing
		// valid JSON for the standard parser.
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("parse JSONC catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q (expected .json, .jsonc, .yaml, or .yml)", filepath.Ext(path))
	}

	// Relative config-file paths in a catalog are relative to the catalog
	// file itself, never to the process working directory. This keeps
	// catalogs relocatable and invocation-order independent.
	baseDir := filepath.Dir(path)

	for name, spec := range file.Services {
		spec.Name = name
		if spec.ConfigFile != "" && !filepath.IsAbs(spec.ConfigFile) {
			spec.ConfigFile = filepath.Join(baseDir, spec.ConfigFile)
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		c.specs[name] = spec
	}

	return c, nil
}

// Resolve returns the spec for the named service. The returned spec is a
// copy; mutations by the caller do not affect the catalog.
func (c *Catalog) Resolve(name string) (model.ServiceSpec, error) {
	spec, ok := c.specs[name]
	if !ok {
		return model.ServiceSpec{}, model.NewCLIError(model.ExitServiceNotFound,
			fmt.Sprintf("unknown service %q (known: %s)", name, strings.Join(c.Names(), ", ")))
	}
	return spec, nil
}

// Names returns all service names in the catalog, sorted for stable output.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
