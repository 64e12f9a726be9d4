// Package yaml loads geodossier configuration files using gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/geodossier"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path over geodossier.DefaultConfig and
// validates the result. Keys absent from the file keep their defaults;
// unknown keys are rejected. An empty path returns the defaults.
func LoadConfig(path string) (geodossier.Config, error) {
	cfg := geodossier.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return geodossier.Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML data over geodossier.DefaultConfig and validates
// the result.
func ParseConfig(data []byte) (geodossier.Config, error) {
	cfg := geodossier.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return geodossier.Config{}, geodossier.Errorf(geodossier.EINVALID, "invalid config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return geodossier.Config{}, err
	}
	return cfg, nil
}
