package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileOverrides is the subset of spec §6's enumerated configuration an
// operator may override via a YAML file; SampleSizeMapping and Weights are
// the only knobs the spec exposes.
type FileOverrides struct {
	SampleSizeMapping int               `yaml:"sample_size_mapping" validate:"omitempty,gt=0"`
	Weights           map[string]string `yaml:"weights"`
}

// SearchPaths returns the ordered locations LoadFile checks for an
// operator-supplied YAML override, following the XDG-then-home-then-cwd
// convention: XDG config dir, dot-file in home, then the working directory.
func SearchPaths(appName string) []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", appName, "config.yaml"),
			filepath.Join(home, "."+appName+".yaml"),
		)
	}
	paths = append(paths, "./"+appName+".yaml")

	return paths
}

// LoadFile reads the first existing path from candidates and decodes it as
// YAML FileOverrides. Returns a zero-value FileOverrides and no error when
// none of the candidates exist.
func LoadFile(candidates []string) (FileOverrides, error) {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return FileOverrides{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var overrides FileOverrides
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return FileOverrides{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return overrides, nil
	}
	return FileOverrides{}, nil
}
