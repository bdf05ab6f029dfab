// Package config loads a project's schwa.yaml, the file the schwac
// driver reads for build defaults instead of demanding every flag on the
// command line every time. Shape and load/save style are grounded on
// vyPal-CaffeineC's project.CfConf (cfconfig.go) — a project manifest
// with a nested compiler-options block, marshaled with
// gopkg.in/yaml.v3.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest schwac looks for in a project directory.
const FileName = "schwa.yaml"

// Config is a project's build configuration.
type Config struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Main        string   `yaml:"main"`
	Compiler    Compiler `yaml:"compiler"`
}

// Compiler holds the knobs that affect codegen and diagnostics rather
// than project metadata.
type Compiler struct {
	Target           string `yaml:"target"`           // always "wasm32" today; kept so a future target doesn't need a schema break
	MemoryPages      int    `yaml:"memoryPages"`       // initial linear memory size, in 64KiB Wasm pages
	WarningsAsErrors bool   `yaml:"warningsAsErrors"`
}

// Default returns the configuration schwac assumes when a project has no
// schwa.yaml at all, or a field is left unset in one that exists.
func Default(name string) Config {
	if name == "" || name == "." {
		name = "schwa-project"
	}
	return Config{
		Name: name,
		Main: "main.sch",
		Compiler: Compiler{
			Target:      "wasm32",
			MemoryPages: 1,
		},
	}
}

// Load reads and parses <dir>/schwa.yaml, falling back to Default(dir) if
// the file does not exist. Any other read or parse error is returned
// wrapped with the path, matching CaffeineC's GetCfConf shape.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(filepath.Base(dir)), nil
		}
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}

	cfg := Default(filepath.Base(dir))
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing %s", path)
	}
	if cfg.Compiler.MemoryPages <= 0 {
		cfg.Compiler.MemoryPages = 1
	}
	return cfg, nil
}

// Save writes cfg to <dir>/schwa.yaml, refusing to overwrite an existing
// file unless overwrite is set — the same guard CaffeineC's CfConf.Save
// applies before touching a project's manifest.
func Save(dir string, cfg Config, overwrite bool) error {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
