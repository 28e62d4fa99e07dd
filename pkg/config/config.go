package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	terrors "github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "TRINITY_"

// UserConfigFile is the file name of the user configuration below ConfigDir
const UserConfigFile = "config.toml"

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the resolved configuration.
type Config struct {
	SDK struct {
		Path string `koanf:"path"`
	} `koanf:"sdk"`

	Update struct {
		AssumeYes bool `koanf:"assume_yes"`
	} `koanf:"update"`

	Output struct {
		Format string `koanf:"format"`
	} `koanf:"output"`
}

// Load resolves configuration for the deployment at root. overrides holds
// dotted keys (e.g. "sdk.path") set from flags; empty values are ignored.
func Load(root string, overrides map[string]interface{}) (*Config, error) {
	return LoadFrom(root, "", overrides)
}

// LoadFrom is Load with an explicit config file layered over the root
// config. Unlike the implicit files, configFile must exist.
func LoadFrom(root, configFile string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, terrors.Wrap(err, terrors.ErrConfigParse, "failed to load defaults")
	}

	userConfig := filepath.Join(paths.ConfigDir(), UserConfigFile)
	if err := loadFileIfExists(k, userConfig); err != nil {
		return nil, err
	}

	if root != "" {
		if err := loadFileIfExists(k, paths.RootConfigPath(root)); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		configFile = paths.ExpandHome(configFile)
		if _, err := os.Stat(configFile); err != nil {
			return nil, terrors.Wrapf(err, terrors.ErrConfigLoad, "config file %s not found", configFile).
				WithDetail("path", configFile)
		}
		if err := loadFileIfExists(k, configFile); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, terrors.Wrap(err, terrors.ErrConfigLoad, "failed to load env vars")
	}

	if set := nonEmpty(overrides); len(set) > 0 {
		if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
			return nil, terrors.Wrap(err, terrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, terrors.Wrap(err, terrors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.SDK.Path = paths.ExpandHome(cfg.SDK.Path)

	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return terrors.Wrapf(err, terrors.ErrConfigLoad, "failed to read config %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return terrors.Wrapf(err, terrors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// envKey maps TRINITY_SDK_PATH to sdk.path: the first underscore separates
// the section, the rest stay part of the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func nonEmpty(overrides map[string]interface{}) map[string]interface{} {
	set := make(map[string]interface{}, len(overrides))
	for k, v := range overrides {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val == "" {
				continue
			}
		}
		set[k] = v
	}
	return set
}
