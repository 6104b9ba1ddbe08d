// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// config implements the configuration.
type config struct {
	Log        *configLog
	Listeners  []configListener
	parser     configParser
	osReadFile func(name string) ([]byte, error)
}

// configLog implements the configuration of the logs.
type configLog struct {
	Level string
}

// configListener implements the configuration of a listener.
type configListener struct {
	Name   string
	Config map[string]interface{}
}

const (
	configDefaultFile string = "depot.yaml"
)

var (
	// CONFIG_FILE is the configuration file name, overriding the default one.
	CONFIG_FILE string
)

// configOsReadFile redirects to os.ReadFile.
func configOsReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// newConfig creates a new config.
func newConfig(parser configParser) *config {
	return &config{
		parser:     parser,
		osReadFile: configOsReadFile,
	}
}

// configParser
type configParser interface {
	parse([]byte, *config) error
}

// configData is the document shared by all syntaxes.
type configData struct {
	Log       map[string]interface{}            `yaml:"log" toml:"log" json:"log"`
	Listeners map[string]map[string]interface{} `yaml:"listeners" toml:"listeners" json:"listeners"`
}

// apply fills the configuration from the parsed document.
func (d configData) apply(c *config) error {
	c.Log = &configLog{}
	if v, ok := d.Log["level"]; ok {
		level, ok := v.(string)
		if !ok {
			return errors.New("invalid log level")
		}
		c.Log.Level = level
	}

	names := make([]string, 0, len(d.Listeners))
	for name := range d.Listeners {
		names = append(names, name)
	}
	sort.Strings(names)

	c.Listeners = nil
	for _, name := range names {
		c.Listeners = append(c.Listeners, configListener{
			Name:   name,
			Config: d.Listeners[name],
		})
	}

	return nil
}

// configParserYAML implements the YAML configuration parser.
type configParserYAML struct {
	yamlUnmarshal func(in []byte, out interface{}) error
}

// newConfigParserYAML creates a new YAML config parser.
func newConfigParserYAML() *configParserYAML {
	return &configParserYAML{
		yamlUnmarshal: yaml.Unmarshal,
	}
}

// parse parses the YAML data.
func (p *configParserYAML) parse(data []byte, c *config) error {
	var d configData
	if err := p.yamlUnmarshal(data, &d); err != nil {
		return err
	}

	return d.apply(c)
}

var _ configParser = (*configParserYAML)(nil)

// configParserTOML implements the TOML configuration parser.
type configParserTOML struct {
	tomlUnmarshal func(in []byte, out interface{}) error
}

// newConfigParserTOML creates a new TOML config parser.
func newConfigParserTOML() *configParserTOML {
	return &configParserTOML{
		tomlUnmarshal: toml.Unmarshal,
	}
}

// parse parses the TOML data.
func (p *configParserTOML) parse(data []byte, c *config) error {
	var d configData
	if err := p.tomlUnmarshal(data, &d); err != nil {
		return err
	}

	return d.apply(c)
}

var _ configParser = (*configParserTOML)(nil)

// configParserJSON implements the JSON configuration parser.
type configParserJSON struct {
	jsonUnmarshal func(in []byte, out interface{}) error
}

// newConfigParserJSON creates a new JSON config parser.
func newConfigParserJSON() *configParserJSON {
	return &configParserJSON{
		jsonUnmarshal: json.Unmarshal,
	}
}

// parse parses the JSON data.
func (p *configParserJSON) parse(data []byte, c *config) error {
	var d configData
	if err := p.jsonUnmarshal(data, &d); err != nil {
		return err
	}

	return d.apply(c)
}

var _ configParser = (*configParserJSON)(nil)

// configFile returns the configuration file name.
func configFile() string {
	if CONFIG_FILE != "" {
		return CONFIG_FILE
	}
	return configDefaultFile
}

// newConfigForFile creates a config with the parser matching the file extension.
func newConfigForFile(name string) (*config, error) {
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return newConfig(newConfigParserYAML()), nil
	case ".toml":
		return newConfig(newConfigParserTOML()), nil
	case ".json":
		return newConfig(newConfigParserJSON()), nil
	default:
		return nil, errors.New("invalid file extension")
	}
}

// LoadConfig loads the configuration.
func LoadConfig() (*config, error) {
	name := configFile()

	c, err := newConfigForFile(name)
	if err != nil {
		return nil, err
	}
	if err := c.load(name); err != nil {
		return nil, err
	}

	return c, nil
}

// load reads and parses the configuration file.
func (c *config) load(name string) error {
	data, err := c.osReadFile(name)
	if err != nil {
		return err
	}

	if err := c.parser.parse(data, c); err != nil {
		return fmt.Errorf("parse %s: %v", name, err)
	}

	return nil
}

//go:embed templates/init/*
var configTemplatesInit embed.FS

// GenerateConfig creates a default configuration file with the given syntax.
func GenerateConfig(syntax string) error {
	var ext string
	switch syntax {
	case "yaml", "toml", "json":
		ext = "." + syntax
	default:
		return fmt.Errorf("invalid syntax '%s'", syntax)
	}

	name := CONFIG_FILE
	if name == "" {
		name = "depot" + ext
	}
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("configuration file '%s' already exists", name)
	}

	data, err := fs.ReadFile(configTemplatesInit, "templates/init/depot"+ext)
	if err != nil {
		return fmt.Errorf("read template: %v", err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("write configuration: %v", err)
	}

	return nil
}
