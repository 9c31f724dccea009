// Package config loads the optional .furnacerc.toml file at a project root.
//
// A missing file yields [Default]. A present file must decode cleanly:
// unknown keys, negative thresholds, bad ignore globs and unknown output
// values are CONFIG errors, reported before any traversal starts.
//
//	ignore = ["generated/**", "benches"]
//	workers = 8
//
//	[output]
//	preset = "tree"
//	symbols = "ascii"
//	format = "text"
//
//	[lints]
//	enabled = true
//
//	[lints.complexity]
//	max_args = 5
//	max_fields = 12
//	max_function_lines = 80
//	max_struct_size = 16
//
//	[lints.naming]
//	enforce_snake_case_functions = true
//	enforce_snake_case_variables = true
//	enforce_pascal_case_types = true
//	enforce_screaming_snake_case_constants = true
//	discouraged_names = ["tmp", "foo"]
//
// The [lints.style] and [lints.ai] tables are accepted so existing files
// keep loading, but no rule reads them; [Config.Ignored] lists the ones
// present.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/style"
)

// FileName is the config file looked up at the project root.
const FileName = ".furnacerc.toml"

// Config is the decoded config file.
type Config struct {
	Ignore  []string `toml:"ignore"`
	Workers int      `toml:"workers"`
	Output  Output   `toml:"output"`
	Lints   Lints    `toml:"lints"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
	// Ignored lists tables that were decoded but have no effect.
	Ignored []string `toml:"-"`
}

// Output holds rendering defaults. Empty fields defer to the preset and
// command-line flags.
type Output struct {
	Preset  string `toml:"preset"`
	Layout  string `toml:"layout"`
	Detail  string `toml:"detail"`
	Color   string `toml:"color"`
	Symbols string `toml:"symbols"`
	Format  string `toml:"format"`
}

// Overrides returns the axis values as style overrides.
func (o Output) Overrides() style.Overrides {
	return style.Overrides{Layout: o.Layout, Detail: o.Detail, Color: o.Color, Symbols: o.Symbols}
}

// Lints holds lint rule settings. Every rule is off unless configured.
type Lints struct {
	Enabled    *bool      `toml:"enabled"`
	Complexity Complexity `toml:"complexity"`
	Naming     Naming     `toml:"naming"`
	Style      Style      `toml:"style"`
	AI         AI         `toml:"ai"`
}

// On reports whether linting is enabled. It defaults to true.
func (l Lints) On() bool { return l.Enabled == nil || *l.Enabled }

// Complexity thresholds. Zero disables a rule.
type Complexity struct {
	MaxArgs          int `toml:"max_args"`
	MaxFields        int `toml:"max_fields"`
	MaxFunctionLines int `toml:"max_function_lines"`
	MaxStructSize    int `toml:"max_struct_size"` // in fields
}

// Naming rules.
type Naming struct {
	SnakeCaseFunctions      bool     `toml:"enforce_snake_case_functions"`
	SnakeCaseVariables      bool     `toml:"enforce_snake_case_variables"`
	PascalCaseTypes         bool     `toml:"enforce_pascal_case_types"`
	ScreamingSnakeConstants bool     `toml:"enforce_screaming_snake_case_constants"`
	DiscouragedNames        []string `toml:"discouraged_names"`
}

// Style is accepted for compatibility. furnace sees declarations, not
// comments, so none of these settings apply.
type Style struct {
	RequireDocComments *bool `toml:"require_doc_comments"`
	WarnTodoComments   *bool `toml:"warn_todo_comments"`
}

// AI is accepted for compatibility. furnace has no model-backed review.
type AI struct {
	Enabled     *bool   `toml:"enabled"`
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// Default returns the configuration used when no file exists.
func Default() *Config { return &Config{} }

// Load reads FileName from root. A missing file returns [Default].
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "read %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "%s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates config text.
func Parse(text string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, table := range []string{"style", "ai"} {
		if md.IsDefined("lints", table) {
			cfg.Ignored = append(cfg.Ignored, "lints."+table)
		}
	}
	return &cfg, nil
}

// Validate checks every value that can be checked without the project.
func (c *Config) Validate() error {
	if err := errors.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	for _, p := range c.Ignore {
		if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
			return errors.New(errors.ErrCodeConfig, "invalid ignore pattern %q", p)
		}
	}
	if _, err := style.Resolve(c.Output.Preset, c.Output.Overrides()); err != nil {
		return err
	}
	cx := c.Lints.Complexity
	for _, th := range []struct {
		name  string
		value int
	}{
		{"max_args", cx.MaxArgs},
		{"max_fields", cx.MaxFields},
		{"max_function_lines", cx.MaxFunctionLines},
		{"max_struct_size", cx.MaxStructSize},
	} {
		if th.value < 0 {
			return errors.New(errors.ErrCodeConfig, "lints.complexity.%s must not be negative, got %d", th.name, th.value)
		}
	}
	return nil
}
