// Package config loads and sanitizes envdoctor configuration.
//
// Configuration is layered with koanf: embedded defaults, then a project
// config file (.envdoctor.toml, envdoctor.toml, .envdoctor.yaml, or
// envdoctor.yaml — first found wins), then ENVDOCTOR_* environment
// variables. Every load ends with sanitization: configuration is untrusted
// input because a cloned repository can carry a project config file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	tomlparser "github.com/knadh/koanf/parsers/toml"
	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/caio-ramos/envdoctor/pkg/errors"
)

// CheckCommands holds the configured developer-tool commands per check
// phase, executed in format -> lint -> test order.
type CheckCommands struct {
	Format []string `koanf:"format" toml:"format"`
	Lint   []string `koanf:"lint" toml:"lint"`
	Test   []string `koanf:"test" toml:"test"`
}

// Config is the fully-merged configuration for one run.
type Config struct {
	// CacheDirs are project-relative directories the cache-clean step may
	// delete. Entries are validated as safe path fragments before they can
	// be interpolated into the clean command.
	CacheDirs []string `koanf:"cache_dirs" toml:"cache_dirs"`

	// Ports lists dev-server ports the port-cleanup step frees.
	Ports []int `koanf:"ports" toml:"ports"`

	Checks CheckCommands `koanf:"checks" toml:"checks"`

	// SnapshotDir is the snapshot root, relative to the project root
	// unless absolute.
	SnapshotDir string `koanf:"snapshot_dir" toml:"snapshot_dir"`

	// ReportDir overrides the default XDG state location for run reports.
	ReportDir string `koanf:"report_dir" toml:"report_dir"`
}

// projectConfigFiles are tried in order; the first that exists is loaded.
var projectConfigFiles = []struct {
	name   string
	parser koanf.Parser
}{
	{".envdoctor.toml", tomlparser.Parser()},
	{"envdoctor.toml", tomlparser.Parser()},
	{".envdoctor.yaml", yamlparser.Parser()},
	{"envdoctor.yaml", yamlparser.Parser()},
}

// Load merges defaults, the project config file under workDir, and
// environment variables, then sanitizes the result.
func Load(workDir string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, tomlparser.Parser()); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, candidate := range projectConfigFiles {
		path := filepath.Join(workDir, candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), candidate.parser); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse project config %s", path)
		}
		break
	}

	// ENVDOCTOR_SNAPSHOT_DIR -> snapshot_dir
	envProvider := env.Provider("ENVDOCTOR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ENVDOCTOR_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	return Sanitize(cfg), nil
}

// Default returns the built-in configuration, sanitized like any other.
func Default() (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrInternal, "embedded defaults are invalid")
	}
	return Sanitize(cfg), nil
}

// RenderDefault renders the default configuration as TOML, for genconfig.
func RenderDefault() ([]byte, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render default config")
	}
	return out, nil
}
