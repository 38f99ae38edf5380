// Package config loads the kvpath configuration file. Defaults are embedded in
// the binary and a user file is merged over them field by field.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvpath/pkg/settings"
)

//go:embed default.yaml
var embeddedDefault []byte

// Config is the merged configuration.
type Config struct {
	App     App     `yaml:"app" json:"app"`
	Resolve Resolve `yaml:"resolve" json:"resolve"`
	Output  Output  `yaml:"output" json:"output"`
	Log     Log     `yaml:"log" json:"log"`
}

type App struct {
	Name string `yaml:"name" json:"name"`
}

type Resolve struct {
	Indexing bool `yaml:"indexing" json:"indexing"`
	Decode   bool `yaml:"decode" json:"decode"`
}

type Output struct {
	Format string     `yaml:"format" json:"format"`
	YAML   YAMLOutput `yaml:"yaml" json:"yaml"`
}

type YAMLOutput struct {
	Indent              int  `yaml:"indent" json:"indent"`
	LiteralBlockStrings bool `yaml:"literal_block_strings" json:"literal_block_strings"`
}

type Log struct {
	Level   string `yaml:"level" json:"level"`
	Console bool   `yaml:"console" json:"console"`
}

// overlay mirrors Config with pointers so unset fields in a user file leave
// defaults alone.
type overlay struct {
	App *struct {
		Name *string `yaml:"name"`
	} `yaml:"app"`
	Resolve *struct {
		Indexing *bool `yaml:"indexing"`
		Decode   *bool `yaml:"decode"`
	} `yaml:"resolve"`
	Output *struct {
		Format *string `yaml:"format"`
		YAML   *struct {
			Indent              *int  `yaml:"indent"`
			LiteralBlockStrings *bool `yaml:"literal_block_strings"`
		} `yaml:"yaml"`
	} `yaml:"output"`
	Log *struct {
		Level   *string `yaml:"level"`
		Console *bool   `yaml:"console"`
	} `yaml:"log"`
}

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefault...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := decodeStrict(embeddedDefault, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil || path == "" {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var o overlay
	if err := decodeStrict(data, &o); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	o.apply(&cfg)
	return cfg, nil
}

// decodeStrict rejects unknown keys so typos in the config file surface.
func decodeStrict(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func (o overlay) apply(cfg *Config) {
	if o.App != nil && o.App.Name != nil {
		cfg.App.Name = *o.App.Name
	}
	if o.Resolve != nil {
		if o.Resolve.Indexing != nil {
			cfg.Resolve.Indexing = *o.Resolve.Indexing
		}
		if o.Resolve.Decode != nil {
			cfg.Resolve.Decode = *o.Resolve.Decode
		}
	}
	if o.Output != nil {
		if o.Output.Format != nil {
			cfg.Output.Format = *o.Output.Format
		}
		if y := o.Output.YAML; y != nil {
			if y.Indent != nil {
				cfg.Output.YAML.Indent = *y.Indent
			}
			if y.LiteralBlockStrings != nil {
				cfg.Output.YAML.LiteralBlockStrings = *y.LiteralBlockStrings
			}
		}
	}
	if o.Log != nil {
		if o.Log.Level != nil {
			cfg.Log.Level = *o.Log.Level
		}
		if o.Log.Console != nil {
			cfg.Log.Console = *o.Log.Console
		}
	}
}

// ResolvePath returns explicit when set, otherwise
// $XDG_CONFIG_HOME/kvpath/config.yaml or ~/.config/kvpath/config.yaml when
// that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
