package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	PresentationConfig struct {
		CharDelay           time.Duration `yaml:"char_delay" validate:"gt=0"`
		SettleDelay         time.Duration `yaml:"settle_delay" validate:"gte=0"`
		ImageWidth          int           `yaml:"image_width" validate:"min=16,max=4096"`
		ImageHeight         int           `yaml:"image_height" validate:"min=16,max=4096"`
		DiagnosticsTemplate string        `yaml:"diagnostics_template" validate:"required"`
	}

	AssetsConfig struct {
		Loader      string            `yaml:"loader" validate:"required,oneof=file http zip"`
		Root        string            `yaml:"root" sanitize:"path_clean"`
		Bundle      string            `yaml:"bundle" validate:"required_if=Loader zip"`
		BaseURL     string            `yaml:"base_url" validate:"required_if=Loader http,omitempty,url"`
		Token       SecretString      `yaml:"token,omitempty"`
		LoadTimeout time.Duration     `yaml:"load_timeout" validate:"gte=0"`
		MaxSize     int64             `yaml:"max_size" validate:"gt=0"`
		Extensions  []string          `yaml:"extensions" validate:"min=1,dive,required,alphanum"`
		Images      map[string]string `yaml:"images" validate:"dive,keys,required,endkeys,required"`
	}

	Config struct {
		Version      int                `yaml:"version" validate:"eq=1"`
		Presentation PresentationConfig `yaml:"presentation"`
		Assets       AssetsConfig       `yaml:"assets"`
		Logging      LoggingConfig      `yaml:"logging"`
		Reporting    ReporterConfig     `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, diagnostics template is
	// expanded later with its own values and must survive processing intact
	DiagnosticsTemplateFieldName TemplateFieldName = "diagnostics_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(DiagnosticsTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
