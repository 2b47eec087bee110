package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"howett.net/quiescent"

	yaml "gopkg.in/yaml.v2"
)

var _ quiescent.ConfigurationService = &fileConfigurationService{}

type fileConfigurationService struct {
	files []string
}

// LoadConfiguration reads every file in order over the same
// Configuration, so later files override earlier ones, then applies
// defaults and validates the result.
func (fc *fileConfigurationService) LoadConfiguration() (*quiescent.Configuration, error) {
	var c quiescent.Configuration
	for _, file := range fc.files {
		err := fc.appendFileToConfiguration(&c, file)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", file, err)
		}
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Each file is a text/template executed against the configuration read so
// far before being parsed as YAML; {{ env "KEY" }} reads the environment.
func (fc *fileConfigurationService) appendFileToConfiguration(c *quiescent.Configuration, filename string) error {
	tmpl, err := template.New(filepath.Base(filename)).Funcs(template.FuncMap{
		"env": func(key string) (string, error) {
			return os.Getenv(key), nil
		},
	}).ParseFiles(filename)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err = tmpl.Execute(buf, c)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(buf.Bytes(), c)
	if err != nil {
		return err
	}

	return nil
}

func NewFileConfigurationService(files []string) quiescent.ConfigurationService {
	return &fileConfigurationService{
		files: files,
	}
}
