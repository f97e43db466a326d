package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// PageHeaderConfig describes a running page header line.
	PageHeaderConfig struct {
		Enable  bool    `yaml:"enable"`
		Text    string  `yaml:"text"`
		ApplyTo ApplyTo `yaml:"apply_to" validate:"gte=0"`
	}

	// PageFooterConfig describes a running page footer line, optionally with
	// automatic page numbers appended after the text.
	PageFooterConfig struct {
		Enable       bool       `yaml:"enable"`
		Text         string     `yaml:"text"`
		ApplyTo      ApplyTo    `yaml:"apply_to" validate:"gte=0"`
		PageNumbers  bool       `yaml:"page_numbers"`
		NumberFormat PageNumFmt `yaml:"number_format" validate:"gte=0"`
	}

	DocumentConfig struct {
		FixZip                bool             `yaml:"fix_zip"`
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		PageHeader            PageHeaderConfig `yaml:"page_header"`
		PageFooter            PageFooterConfig `yaml:"page_footer"`
	}

	// FetchConfig controls loading of remote image references.
	FetchConfig struct {
		TimeoutSec int          `yaml:"timeout_seconds" validate:"min=1"`
		UserAgent  string       `yaml:"user_agent"`
		AuthToken  SecretString `yaml:"auth_token"`
	}

	JobsConfig struct {
		Workers     int    `yaml:"workers" validate:"min=1"`
		QueueDepth  int    `yaml:"queue_depth" validate:"min=1"`
		ExpiryHours int    `yaml:"expiry_hours" validate:"min=1"`
		StorePath   string `yaml:"store_path,omitempty" sanitize:"path_clean" validate:"omitempty,filepath"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Fetch     FetchConfig    `yaml:"fetch"`
		Jobs      JobsConfig     `yaml:"jobs"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
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
// superimposes its values on top of expanded configuration tamplate to provide
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
