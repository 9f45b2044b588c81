package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, `\u@\h\$ `, cfg.Prompt)
	assert.Equal(t, "> ", cfg.ContinuationPrompt)
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"default": {
			mutate: func(*Configuration) {},
		},
		"missing prompt": {
			mutate:  func(c *Configuration) { c.Prompt = "" },
			wantErr: "'prompt' failed on the 'required' tag",
		},
		"missing continuation": {
			mutate:  func(c *Configuration) { c.ContinuationPrompt = "" },
			wantErr: "'continuation_prompt' failed on the 'required' tag",
		},
		"bad color": {
			mutate:  func(c *Configuration) { c.Color = "sometimes" },
			wantErr: "'color' failed on the 'oneof' tag",
		},
		"bad level": {
			mutate:  func(c *Configuration) { c.LogLevel = "trace" },
			wantErr: "'log_level' failed on the 'oneof' tag",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.HistoryPath(), "no directory to resolve against")

	cfg.configurationDir = "/etc/rshell"
	assert.Equal(t, "/etc/rshell/history", cfg.HistoryPath())

	cfg.HistoryFile = "/var/history"
	assert.Equal(t, "/var/history", cfg.HistoryPath())

	cfg.HistoryFile = ""
	assert.Empty(t, cfg.HistoryPath())
}
