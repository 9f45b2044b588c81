// Package config loads the interpreter's YAML configuration.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configurationDir string
	configFs         afero.Fs

	Prompt             string `json:"prompt" validate:"required"`
	ContinuationPrompt string `json:"continuation_prompt" validate:"required"`
	Color              string `json:"color" validate:"oneof=always auto never"`
	HistoryFile        string `json:"history_file"`
	EventLog           string `json:"event_log"`
	LogLevel           string `json:"log_level" validate:"oneof=error warn info debug"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Dir is the directory the configuration was loaded from, empty for the
// built-in default.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// HistoryPath returns the absolute path of the readline history file, empty
// if history is disabled.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

func (c *Configuration) resolve(name string) string {
	switch {
	case name == "":
		return ""
	case filepath.IsAbs(name):
		return name
	case c.configurationDir == "":
		return ""
	default:
		return filepath.Join(c.configurationDir, name)
	}
}

// EventLogPath returns the absolute path of the event log, empty if the
// event log is disabled.
func (c *Configuration) EventLogPath() string {
	return c.resolve(c.EventLog)
}

// OpenEventLog opens the event log in an append only state. It returns a nil
// file if the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}

	if filepath.IsAbs(c.EventLog) {
		return afero.NewOsFs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
