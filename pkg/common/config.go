package common

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const (
	configPathEnv = "CONFIG_PATH"
	configJSONEnv = "CONFIG_JSON"
)

//go:embed config.default.yaml
var defaultConfig []byte

// ConfigManager layers configuration sources: embedded defaults, then an
// optional file pointed at by CONFIG_PATH, then a raw CONFIG_JSON override.
type ConfigManager[T any] struct {
	kf     *koanf.Koanf
	config T
}

// NewConfigManager loads configuration and unmarshals it into T
func NewConfigManager[T any]() (*ConfigManager[T], error) {
	kf := koanf.New(".")

	if err := kf.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return nil, err
	}

	if path := os.Getenv(configPathEnv); path != "" {
		parser, err := parserForPath(path)
		if err != nil {
			return nil, err
		}
		if err := kf.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("loaded config file")
	}

	if raw := os.Getenv(configJSONEnv); raw != "" {
		if err := kf.Load(rawbytes.Provider([]byte(raw)), json.Parser()); err != nil {
			return nil, err
		}
	}

	cm := &ConfigManager[T]{kf: kf}
	if err := cm.unmarshal(); err != nil {
		return nil, err
	}

	return cm, nil
}

// GetConfig returns the current typed configuration
func (cm *ConfigManager[T]) GetConfig() T {
	return cm.config
}

func (cm *ConfigManager[T]) unmarshal() error {
	return cm.kf.UnmarshalWithConf("", &cm.config, koanf.UnmarshalConf{
		Tag: "key",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cm.config,
			WeaklyTypedInput: true,
			Squash:           true,
		},
	})
}

func parserForPath(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	default:
		return yaml.Parser(), nil
	}
}
